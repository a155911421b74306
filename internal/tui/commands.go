package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/secretsanta/internal/slot"
)

// Orchestrator calls block (Submit waits for the service), so each runs as a
// command off the event loop.

func submitCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		snap, err := ctrl.Submit(ctx)
		return actionResultMsg{snapshot: snap, err: err}
	}
}

func resetCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		snap, err := ctrl.Reset()
		return actionResultMsg{snapshot: snap, err: err}
	}
}

func selectCmd(ctrl Controller, slotID string, candidate *slot.Candidate) tea.Cmd {
	return func() tea.Msg {
		snap, err := ctrl.Select(slotID, candidate)
		return actionResultMsg{snapshot: snap, err: err}
	}
}

// loadAndSelectCmd reads path and offers it to the slot. An unreadable file
// is reported as a notice without touching the slot.
func loadAndSelectCmd(ctrl Controller, slotID, path string) tea.Cmd {
	return func() tea.Msg {
		candidate, err := slot.CandidateFromFile(path)
		if err != nil {
			return actionResultMsg{snapshot: ctrl.Snapshot(), err: err}
		}
		snap, err := ctrl.Select(slotID, candidate)
		return actionResultMsg{snapshot: snap, err: err}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
