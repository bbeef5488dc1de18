// pkg/output/table.go

package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableWriter collects rows and writes them as aligned columns, with a rule of
// dashes under each header.
type TableWriter struct {
	w       io.Writer
	headers []string
	rows    [][]string
}

// NewTableTo creates a table that renders to w.
func NewTableTo(w io.Writer) *TableWriter {
	return &TableWriter{w: w}
}

func (t *TableWriter) WithHeaders(headers ...string) *TableWriter {
	t.headers = headers
	return t
}

// AddRow appends a row. Short rows are padded with empty cells.
func (t *TableWriter) AddRow(values ...string) *TableWriter {
	for len(values) < len(t.headers) {
		values = append(values, "")
	}
	t.rows = append(t.rows, values)
	return t
}

// Render writes the table. Cells must not contain tabs or newlines.
func (t *TableWriter) Render() error {
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	line := func(cells []string) {
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if len(t.headers) > 0 {
		line(t.headers)
		rule := make([]string, len(t.headers))
		for i, h := range t.headers {
			rule[i] = strings.Repeat("-", len(h))
		}
		line(rule)
	}
	for _, row := range t.rows {
		line(row)
	}
	return tw.Flush()
}
