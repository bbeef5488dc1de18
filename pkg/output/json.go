// Package output renders command results for the terminal or for machines.
package output

import (
	"encoding/json"
	"io"
)

// JSONTo writes any data structure as formatted JSON to the specified writer.
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}
