package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	// Comment bodies top out in the kilobytes; 1MB leaves generous headroom
	// (requires w for proper 413 response).
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	// Note: DisallowUnknownFields() is intentionally NOT used so clients can
	// send extra fields without breaking. Validation happens downstream via
	// domain-specific validators.

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
