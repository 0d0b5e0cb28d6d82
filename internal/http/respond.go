package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/devconnector/devconnector/internal/validate"
)

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends a single error message as {"msg": ...}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

// writeValidationErrors sends field-level failures as {"errors": [...]}.
func writeValidationErrors(w http.ResponseWriter, verrs validate.Errors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
}
