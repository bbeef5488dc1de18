// pkg/output/output_test.go

package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMeter(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), Meter(0, 10))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), Meter(50, 10))
	assert.Equal(t, strings.Repeat("█", 10), Meter(250, 10))
	assert.Equal(t, strings.Repeat("░", 10), Meter(-3, 10))
	assert.Empty(t, Meter(50, 0))
}

func TestReportText(t *testing.T) {
	r := strength.Evaluate("Tr0ub4dor&3xyz!")
	est := strength.Estimate("Tr0ub4dor&3xyz!")

	var buf bytes.Buffer
	require.NoError(t, ReportText(&buf, r, &est))

	out := buf.String()
	assert.Contains(t, out, "Strength:  Very Strong (100/100)")
	assert.Contains(t, out, "Length:    15 characters")
	assert.Contains(t, out, "Entropy:   98.5 bits")
	assert.Contains(t, out, "Estimate:")
	assert.Contains(t, out, "✓ At least 12 characters")
	assert.Contains(t, out, "• "+strength.PositiveMarker)

	// criteria are listed in table order
	last := -1
	for _, c := range strength.AllCriteria() {
		idx := strings.Index(out, c.Label())
		require.NotEqual(t, -1, idx, c.Label())
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestReportText_Weak(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ReportText(&buf, strength.Evaluate("password"), nil))

	out := buf.String()
	assert.Contains(t, out, "Very Weak")
	assert.Contains(t, out, "✗ Uppercase letters (A-Z)")
	assert.Contains(t, out, strength.IssueCommonPassword)
	assert.NotContains(t, out, "Estimate:")
}

func TestWrite(t *testing.T) {
	r := strength.Evaluate("aB3$")

	var js bytes.Buffer
	require.NoError(t, Write(&js, FormatJSON, r, nil))
	var back strength.Report
	require.NoError(t, json.Unmarshal(js.Bytes(), &back))
	assert.Equal(t, r, back)

	var ym bytes.Buffer
	require.NoError(t, Write(&ym, FormatYAML, r, nil))
	assert.Contains(t, ym.String(), "strength: Fair")

	var txt bytes.Buffer
	require.NoError(t, Write(&txt, FormatText, r, func(w io.Writer) error {
		return ReportText(w, r, nil)
	}))
	assert.Contains(t, txt.String(), "Strength:  Fair")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableTo(&buf).
		WithHeaders("PASSWORD", "STRENGTH").
		AddRow("abc", "Very Weak").
		Render())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "PASSWORD"))
	assert.True(t, strings.HasPrefix(lines[1], "--------"))
	assert.True(t, strings.HasPrefix(lines[2], "abc"))
}

func TestTable_PadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableTo(&buf).
		WithHeaders("A", "B", "C").
		AddRow("x").
		AddRow("longer", "y", "z").
		Render())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[0], "B"), strings.Index(lines[3], "y"))
}
