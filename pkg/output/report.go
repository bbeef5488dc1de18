// pkg/output/report.go

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

const (
	markMet   = "✓"
	markUnmet = "✗"
	meterFill = "█"
	meterRest = "░"

	// MeterWidth is the number of cells in a text meter.
	MeterWidth = 30
)

// Meter draws score (0..100) as a bar of width cells.
func Meter(score, width int) string {
	if width <= 0 {
		return ""
	}
	if score < 0 {
		score = 0
	}
	if score > strength.MaxScore {
		score = strength.MaxScore
	}
	filled := score * width / strength.MaxScore
	return strings.Repeat(meterFill, filled) + strings.Repeat(meterRest, width-filled)
}

// CriterionMark is the check or cross shown next to a criterion label.
func CriterionMark(met bool) string {
	if met {
		return markMet
	}
	return markUnmet
}

// ReportText is the human rendering of a strength report. est may be nil.
func ReportText(w io.Writer, r strength.Report, est *strength.GuessEstimate) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Strength:  %s (%d/%d)\n", r.Strength, r.Score, strength.MaxScore)
	fmt.Fprintf(&b, "           [%s]\n", Meter(r.Score, MeterWidth))
	fmt.Fprintf(&b, "Length:    %d characters\n", r.Length)
	fmt.Fprintf(&b, "Entropy:   %.1f bits\n", r.Entropy)
	if est != nil {
		fmt.Fprintf(&b, "Estimate:  %d/4, crack time %s\n", est.Score, est.CrackTime)
	}

	b.WriteString("Criteria:\n")
	for _, c := range strength.AllCriteria() {
		fmt.Fprintf(&b, "  %s %s\n", CriterionMark(r.Criteria.Met(c)), c.Label())
	}

	if len(r.Feedback) > 0 {
		b.WriteString("Feedback:\n")
		for _, line := range r.Feedback {
			fmt.Fprintf(&b, "  • %s\n", line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
