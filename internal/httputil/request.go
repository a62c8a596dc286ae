package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps request bodies. Page content blobs are whole documents,
// so the limit is generous but still bounded.
const maxBodyBytes = 10 << 20

// ParseJSON decodes the request body into dest. Unknown fields are allowed:
// content and properties are opaque bags whose shape the server does not own.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
