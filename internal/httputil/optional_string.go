package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON merge-patch semantics,
// the tri-state a plain *string cannot express:
//   - Present=false: field absent (leave unchanged)
//   - Present=true, Value=nil: field was JSON null (clear it)
//   - Present=true, Value=&s: field has a value
//
// Used for nullable page fields like icon and cover.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler. Being called at all means the
// field appeared in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
