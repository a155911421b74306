package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// Tests in this file mutate the package theme and do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"festive", "festive"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "festive"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) -> %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Error("noColor flag should disable colors")
	}

	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR presence should disable colors even when empty")
	}
}

func TestGetCurrentTUITheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetTheme("none")
	if _, ok := GetCurrentTUITheme().Accent.(lipgloss.NoColor); !ok {
		t.Error("no-color theme should map to NoColorTUITheme")
	}
	SetTheme("festive")
	if GetCurrentTUITheme() != FestiveTUITheme {
		t.Error("festive theme should map to FestiveTUITheme")
	}
}

func TestColorHelpers(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetTheme("none")
	if got := Success("done"); got != "done" {
		t.Errorf("Success() without colors = %q", got)
	}

	SetTheme("festive")
	got := Error("boom")
	if !strings.HasPrefix(got, FestiveTheme.Error) || !strings.HasSuffix(got, FestiveTheme.Reset) {
		t.Errorf("Error() = %q, want wrapped in escape codes", got)
	}
}
