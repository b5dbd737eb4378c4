package main

import (
	"encoding/json"
	"io"
)

// writeJSON renders v as indented JSON for --json output. HTML escaping is
// off: the payloads are file paths, and escaped ampersands would corrupt
// them for shell consumers.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
