/* pkg/output/yaml.go */

package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLTo writes data as a YAML document. Types with ordered maps (criteria)
// keep their order through their MarshalYAML.
func YAMLTo(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
