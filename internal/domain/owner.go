package domain

import "strings"

// CheckOwner reports whether the authenticated user owns a resource.
// Both identifiers are compared as canonical trimmed strings so that a
// stored id and a token-borne id can never diverge by representation.
// Ownership is not transferable and there is no admin override.
func CheckOwner(ownerID, userID string) bool {
	owner := strings.TrimSpace(ownerID)
	user := strings.TrimSpace(userID)
	if owner == "" || user == "" {
		return false
	}
	return owner == user
}
