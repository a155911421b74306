package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/secretsanta/internal/ui"
)

// Style variables for the interactive surface.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	versionStyle     lipgloss.Style
	labelStyle       lipgloss.Style
	fileStyle        lipgloss.Style
	emptyFileStyle   lipgloss.Style
	successStyle     lipgloss.Style
	matchesStyle     lipgloss.Style
	errorStyle       lipgloss.Style
	pendingStyle     lipgloss.Style
	footerKeyStyle   lipgloss.Style
	footerDescStyle  lipgloss.Style
	footerMutedStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Width(18)

	fileStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	emptyFileStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Italic(true)

	successStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	matchesStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	pendingStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	footerMutedStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Faint(true)
}
