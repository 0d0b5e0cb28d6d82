// Package gravatar derives avatar URLs from email addresses. The mapping is
// pure: lowercase-trimmed email, MD5 hex digest, fixed size/rating/default
// parameters. No network access is required.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	baseURL       = "https://www.gravatar.com/avatar"
	defaultSize   = "200"
	defaultRating = "pg"
	defaultImage  = "mm"
)

// URL returns the deterministic gravatar URL for an email address.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("%s/%s?s=%s&r=%s&d=%s", baseURL, hex.EncodeToString(sum[:]), defaultSize, defaultRating, defaultImage)
}
