package output

import (
	"encoding/json"
	"io"

	"github.com/vlinker/variant-linker/internal/annotator"
)

// Envelope is the full JSON response object: annotated variants plus the
// run's meta object (spec.md §4.13, §4.15).
type Envelope struct {
	Data []*annotator.AnnotatedVariant `json:"data"`
	Meta map[string]any                `json:"meta"`
}

// WriteJSON marshals the envelope to w. Stable key order is not required
// by spec.md §4.13, so the standard library's map ordering is left as-is.
func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
