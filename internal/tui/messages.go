package tui

import "github.com/agbru/secretsanta/internal/orchestration"

// SnapshotMsg carries a published orchestrator state.
type SnapshotMsg struct {
	Snapshot orchestration.Snapshot
}

// actionResultMsg is returned by commands that called the orchestrator.
type actionResultMsg struct {
	snapshot orchestration.Snapshot
	err      error
}

// ContextCancelledMsg signals that the application context ended.
type ContextCancelledMsg struct {
	Err error
}
