// Package app wires configuration, logging, metrics and the submission
// pipeline together and dispatches to the interactive or one-shot surface.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/secretsanta/internal/cli"
	"github.com/agbru/secretsanta/internal/config"
	"github.com/agbru/secretsanta/internal/delivery"
	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/generator"
	"github.com/agbru/secretsanta/internal/logging"
	"github.com/agbru/secretsanta/internal/metrics"
	"github.com/agbru/secretsanta/internal/orchestration"
	"github.com/agbru/secretsanta/internal/tui"
	"github.com/agbru/secretsanta/internal/ui"
)

// Application represents the secretsanta application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	// runTUI starts the interactive surface; replaced in tests.
	runTUI func(ctx context.Context, ctrl tui.Controller, opts tui.Options) int
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithTUIRunner replaces the interactive surface entry point.
func WithTUIRunner(fn func(ctx context.Context, ctrl tui.Controller, opts tui.Options) int) AppOption {
	return func(a *Application) { a.runTUI = fn }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, runTUI: tui.Run}
	for _, opt := range opts {
		opt(app)
	}

	programName := "secretsanta"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	if ui.GetCurrentTheme().Name != ui.NoColorTheme.Name {
		ui.SetTheme(a.Config.Theme)
	}

	logger, closeLog, err := a.openLogger()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening log file: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer closeLog()

	recorder := metrics.NewRecorder()
	client := generator.NewClient(a.Config.Endpoint,
		generator.WithUserAgent("secretsanta/"+Version),
		generator.WithLogger(logger),
	)
	deliverer := delivery.New(a.Config.OutputDir, a.Config.OutputName, delivery.WithLogger(logger))
	orch := orchestration.New(client, deliverer,
		orchestration.WithRecorder(recorder),
		orchestration.WithLogger(logger),
	)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger.Debug("starting",
		logging.String("version", Version),
		logging.String("endpoint", client.Endpoint()),
		logging.String("output_dir", deliverer.Dir()),
		logging.Bool("interactive", a.Config.Interactive()),
	)

	var code int
	if a.Config.Interactive() {
		code = a.runTUI(ctx, orch, tui.Options{StartDir: deliverer.Dir(), Version: Version})
	} else {
		code = cli.RunOneShot(ctx, orch, a.Config.EmployeesFile, a.Config.LastYearFile, out)
	}

	if a.Config.MetricsFile != "" {
		if err := recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
			logger.Error("writing metrics", err, logging.String("path", a.Config.MetricsFile))
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
		}
	}
	return code
}

// openLogger returns the configured logger. Without a log file, one-shot
// mode logs to ErrWriter and the interactive surface does not log at all
// since it owns the terminal.
func (a *Application) openLogger() (logging.Logger, func(), error) {
	if a.Config.LogFile != "" {
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return logging.NewLevelLogger(f, "secretsanta", a.Config.LogLevel), func() { _ = f.Close() }, nil
	}
	if a.Config.Interactive() {
		return logging.Nop(), func() {}, nil
	}
	return logging.NewLevelLogger(a.ErrWriter, "secretsanta", a.Config.LogLevel), func() {}, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
