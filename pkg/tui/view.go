/* pkg/tui/view.go */

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Password Strength Checker"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.input.Value() != "" && m.report != nil {
		b.WriteString(m.renderReport(*m.report))
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString(s.Error.Render("⚠ " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	status := m.source
	if m.pending {
		status += " · checking…"
	}
	b.WriteString(s.Footer.Render(fmt.Sprintf("ctrl+r reveal · ctrl+g generate · esc quit   [%s]", status)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderReport(r strength.Report) string {
	s := m.styles
	meterWidth := m.width - 20
	if meterWidth < 10 {
		meterWidth = 10
	}
	if meterWidth > 50 {
		meterWidth = 50
	}

	header := fmt.Sprintf("%s  %s %d/%d",
		s.Label(r.Strength), s.Meter(r.Score, meterWidth), r.Score, strength.MaxScore)

	stats := s.KeyValuePair("Length", fmt.Sprintf("%d", r.Length)) + "   " +
		s.KeyValuePair("Entropy", fmt.Sprintf("%.1f bits", r.Entropy))

	items := make([]string, 0, len(strength.AllCriteria()))
	for _, c := range strength.AllCriteria() {
		items = append(items, s.Criterion(c.Label(), r.Criteria.Met(c)))
	}
	gridWidth := m.width - 4
	if gridWidth < 40 {
		gridWidth = 40
	}
	grid := s.Grid(items, 2, gridWidth)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		stats,
		"",
		grid,
		"",
		s.Feedback(r.Feedback),
	)
	return s.Panel.Render(body)
}
