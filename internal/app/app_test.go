package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/orchestration"
	"github.com/agbru/secretsanta/internal/testutil"
	"github.com/agbru/secretsanta/internal/tui"
	"github.com/agbru/secretsanta/internal/ui"
)

func TestNew_ParsesFlags(t *testing.T) {
	var errBuf bytes.Buffer
	a, err := New([]string{"secretsanta", "-employees", "a.xlsx", "-last-year", "b.xlsx", "-no-color"}, &errBuf)
	require.NoError(t, err)

	assert.Equal(t, "a.xlsx", a.Config.EmployeesFile)
	assert.Equal(t, "b.xlsx", a.Config.LastYearFile)
	assert.True(t, a.Config.NoColor)
	assert.False(t, a.Config.Interactive())
}

func TestNew_Errors(t *testing.T) {
	var errBuf bytes.Buffer

	_, err := New([]string{"secretsanta", "-h"}, &errBuf)
	require.Error(t, err)
	assert.True(t, IsHelpError(err))
	assert.Contains(t, errBuf.String(), "Usage:")

	_, err = New([]string{"secretsanta", "-endpoint", "ftp://nowhere"}, &errBuf)
	require.Error(t, err)
	assert.False(t, IsHelpError(err))
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
}

func TestRun_OneShot(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.SetReply(testutil.Reply{Status: 200, Body: []byte("assignments"), HasMatches: "true"})

	in := t.TempDir()
	outDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "santa.prom")
	emp := testutil.WriteWorkbook(t, in, "employees.xlsx")
	last := testutil.WriteWorkbook(t, in, "2023.xlsx")

	var errBuf, out bytes.Buffer
	a, err := New([]string{"secretsanta",
		"-endpoint", svc.URL(),
		"-employees", emp,
		"-last-year", last,
		"-out", outDir,
		"-no-color",
		"-metrics-file", metricsFile,
	}, &errBuf)
	require.NoError(t, err)

	code := a.Run(context.Background(), &out)
	require.Equal(t, apperrors.ExitSuccess, code, "stdout: %s\nstderr: %s", out.String(), errBuf.String())

	data, err := os.ReadFile(filepath.Join(outDir, "secret_santa_assignments.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "assignments", string(data))
	assert.Contains(t, out.String(), "Matches Found with Last Year")

	calls := svc.Calls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].UserAgent, "secretsanta/"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `secretsanta_submissions_total{outcome="succeeded"} 1`)
}

func TestRun_OneShotServiceError(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.SetReply(testutil.Reply{Status: 400, Body: []byte(`{"message":"row mismatch"}`)})

	in := t.TempDir()
	var errBuf, out bytes.Buffer
	a, err := New([]string{"secretsanta",
		"-endpoint", svc.URL(),
		"-employees", testutil.WriteWorkbook(t, in, "e.xlsx"),
		"-last-year", testutil.WriteWorkbook(t, in, "l.xlsx"),
		"-out", t.TempDir(),
		"-no-color",
		"-log-file", filepath.Join(t.TempDir(), "santa.log"),
	}, &errBuf)
	require.NoError(t, err)

	assert.Equal(t, apperrors.ExitErrorService, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "row mismatch")
	assert.Empty(t, errBuf.String(), "logs go to the log file")
}

func TestRun_Interactive(t *testing.T) {
	var got tui.Options
	var snap orchestration.Snapshot
	runner := func(_ context.Context, ctrl tui.Controller, opts tui.Options) int {
		got = opts
		snap = ctrl.Snapshot()
		return apperrors.ExitSuccess
	}

	var errBuf, out bytes.Buffer
	a, err := New([]string{"secretsanta", "-no-color"}, &errBuf, WithTUIRunner(runner))
	require.NoError(t, err)
	require.True(t, a.Config.Interactive())

	assert.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Equal(t, Version, got.Version)
	assert.Equal(t, ".", got.StartDir)
	assert.Equal(t, orchestration.Idle, snap.Phase)
	assert.Empty(t, errBuf.String())
}

func TestRun_AppliesTheme(t *testing.T) {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR is set in the environment")
	}
	prev := ui.GetCurrentTheme()
	t.Cleanup(func() { ui.SetCurrentTheme(prev) })

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"secretsanta"}, "festive"},
		{[]string{"secretsanta", "-theme", "light"}, "light"},
		{[]string{"secretsanta", "-theme", "light", "-no-color"}, "none"},
	}
	for _, tt := range tests {
		var active string
		runner := func(context.Context, tui.Controller, tui.Options) int {
			active = ui.GetCurrentTheme().Name
			return apperrors.ExitSuccess
		}
		var errBuf, out bytes.Buffer
		a, err := New(tt.args, &errBuf, WithTUIRunner(runner))
		require.NoError(t, err)
		a.Run(context.Background(), &out)
		assert.Equal(t, tt.want, active, "%v", tt.args)
	}
}

func TestRun_BadLogFile(t *testing.T) {
	var errBuf, out bytes.Buffer
	a, err := New([]string{"secretsanta", "-log-file", filepath.Join(t.TempDir(), "missing", "x.log")}, &errBuf,
		WithTUIRunner(func(context.Context, tui.Controller, tui.Options) int { return 0 }))
	require.NoError(t, err)

	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "Error opening log file")
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"-version"}, true},
		{[]string{"-no-color", "--version"}, true},
		{[]string{"-v"}, true},
		{[]string{"--", "-version"}, false},
		{[]string{"-endpoint", "http://x"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasVersionFlag(tt.args), "%v", tt.args)
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "secretsanta "+Version+" ("))
}
