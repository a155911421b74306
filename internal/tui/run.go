package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/secretsanta/internal/errors"
)

// Run is the public entry point for the interactive mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, ctrl Controller, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, ctrl, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the bridge can Send.
	model.ref.SetProgram(p)
	unsubscribe := ctrl.Subscribe(snapshotBridge(model.ref))
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
