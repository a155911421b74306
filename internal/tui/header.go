package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/secretsanta/internal/orchestration"
)

// HeaderModel renders the top bar: title, version and current phase.
type HeaderModel struct {
	version string
	width   int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header for phase.
func (h HeaderModel) View(phase orchestration.Phase) string {
	titleText := "Secret Santa"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	left := titleStyle.Render(titleText) + versionStyle.Render(" | "+phase.String())

	innerWidth := h.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	gap := innerWidth - lipgloss.Width(left)
	if gap < 0 {
		gap = 0
	}
	return headerStyle.Width(h.width).Render(left + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
