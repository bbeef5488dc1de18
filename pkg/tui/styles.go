/* pkg/tui/styles.go */

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/output"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// Common color palette for consistent styling
var (
	ColorPrimary = lipgloss.Color("#00ffff") // Cyan
	ColorSuccess = lipgloss.Color("#00ff00") // Green
	ColorGood    = lipgloss.Color("#87d700") // Light green
	ColorWarning = lipgloss.Color("#ffaa00") // Orange
	ColorError   = lipgloss.Color("#ff0000") // Red
	ColorWeak    = lipgloss.Color("#ff5f00") // Red-orange
	ColorInfo    = lipgloss.Color("#0099ff") // Blue
	ColorMuted   = lipgloss.Color("#666666") // Gray
	ColorBorder  = lipgloss.Color("#3d5a80") // Medium blue
)

// LevelColor maps each strength band to a colour, red through green.
func LevelColor(l strength.Level) lipgloss.Color {
	switch l {
	case strength.VeryWeak:
		return ColorError
	case strength.Weak:
		return ColorWeak
	case strength.Fair:
		return ColorWarning
	case strength.Strong:
		return ColorGood
	case strength.VeryStrong:
		return ColorSuccess
	default:
		return ColorMuted
	}
}

// Styles groups every style the watch screen uses.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Panel    lipgloss.Style

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style

	Footer lipgloss.Style
}

// NewStyles creates the default style set
func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		Primary: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Secondary: lipgloss.NewStyle().
			Foreground(ColorInfo),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
	}
}

// Label renders the band name in its colour.
func (s Styles) Label(l strength.Level) string {
	return lipgloss.NewStyle().Bold(true).Foreground(LevelColor(l)).Render(l.String())
}

// Meter renders a 0..100 score bar coloured by band.
func (s Styles) Meter(score, width int) string {
	bar := output.Meter(score, width)
	return lipgloss.NewStyle().Foreground(LevelColor(strength.LevelForScore(score))).Render(bar)
}

// KeyValuePair creates a styled key-value pair display
func (s Styles) KeyValuePair(key, value string) string {
	return s.Muted.Render(key+": ") + s.Primary.Render(value)
}

// Criterion renders one criterion with its mark.
func (s Styles) Criterion(label string, met bool) string {
	mark := output.CriterionMark(met)
	if met {
		return s.Success.Render(mark) + " " + label
	}
	return s.Error.Render(mark) + " " + s.Muted.Render(label)
}

// Feedback renders feedback lines, highlighting the positive one.
func (s Styles) Feedback(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strength.IsPositive(line) {
			out = append(out, s.Success.Render("★ "+line))
			continue
		}
		out = append(out, s.Secondary.Render("• ")+line)
	}
	return strings.Join(out, "\n")
}

// Grid creates a grid layout of items
func (s Styles) Grid(items []string, columns int, width int) string {
	if len(items) == 0 || columns <= 0 {
		return ""
	}

	colWidth := width / columns
	var rows []string

	for i := 0; i < len(items); i += columns {
		var rowItems []string
		for j := 0; j < columns && i+j < len(items); j++ {
			rowItems = append(rowItems, lipgloss.NewStyle().Width(colWidth).Render(items[i+j]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowItems...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
