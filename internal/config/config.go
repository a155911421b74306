// Package config resolves the application configuration from command-line
// flags, SANTA_* environment variables, an optional .env file, an optional
// YAML file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/agbru/secretsanta/internal/delivery"
	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/generator"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "SANTA_"

// DotEnvFile is loaded from the working directory when present.
const DotEnvFile = ".env"

// AppConfig aggregates all configuration parameters.
type AppConfig struct {
	// Endpoint is the generation service URL.
	Endpoint string
	// EmployeesFile and LastYearFile are preselected inputs for one-shot mode.
	EmployeesFile string
	LastYearFile  string
	// OutputDir is where the generated workbook is saved.
	OutputDir string
	// OutputName is the file name of the generated workbook.
	OutputName string
	// TUI forces the interactive surface.
	TUI bool
	// NoColor disables colored output.
	NoColor bool
	// Theme is the color theme name ("festive" or "light").
	Theme string
	// LogLevel is a zerolog level name.
	LogLevel string
	// LogFile receives JSON log lines. Empty means stderr in one-shot mode and
	// no logging in the interactive surface.
	LogFile string
	// MetricsFile, when set, receives a Prometheus textfile on exit.
	MetricsFile string
	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string
}

// Default returns the built-in defaults.
func Default() AppConfig {
	return AppConfig{
		Endpoint:   generator.DefaultEndpoint,
		OutputDir:  ".",
		OutputName: delivery.DefaultFileName,
		LogLevel:   "info",
		Theme:      "festive",
	}
}

// Interactive reports whether the interactive surface should run: either it
// was requested or no input file was given on the command line.
func (c AppConfig) Interactive() bool {
	return c.TUI || (c.EmployeesFile == "" && c.LastYearFile == "")
}

// Validate checks the resolved configuration.
func (c AppConfig) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigError("invalid endpoint %q: must be an http(s) URL", c.Endpoint)
	}
	name := c.OutputName
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return apperrors.NewConfigError("invalid output name %q: must be a plain file name", name)
	}
	switch c.Theme {
	case "festive", "light", "none":
	default:
		return apperrors.NewConfigError("invalid theme %q: must be festive, light or none", c.Theme)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	return nil
}

// ParseConfig parses args (without the program name) and resolves the
// remaining layers. flag.ErrHelp is returned unchanged when -h is given.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errorWriter, "Generates Secret Santa assignments from two spreadsheets.")
		fmt.Fprintln(errorWriter, "Without -employees and -last-year an interactive UI starts.")
		fmt.Fprintln(errorWriter, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery option can also be set with %s<NAME> (e.g. %sENDPOINT).\n", EnvPrefix, EnvPrefix)
	}

	config := Default()
	fs.StringVar(&config.Endpoint, "endpoint", config.Endpoint, "Generation service URL.")
	fs.StringVar(&config.EmployeesFile, "employees", "", "Current participants spreadsheet (.xlsx).")
	fs.StringVar(&config.LastYearFile, "last-year", "", "Last year's assignments spreadsheet (.xlsx).")
	fs.StringVar(&config.OutputDir, "out", config.OutputDir, "Directory where the result is saved.")
	fs.StringVar(&config.OutputName, "name", config.OutputName, "File name of the saved result.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive UI even when files are given.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", config.Theme, "Color theme (festive, light, none).")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level (debug, info, warn, error).")
	fs.StringVar(&config.LogFile, "log-file", "", "Write JSON logs to this file.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return AppConfig{}, err
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = os.Getenv(EnvPrefix + "CONFIG")
	}
	if config.ConfigFile != "" {
		fc, err := loadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		fc.apply(&config, fs)
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return apperrors.NewConfigError("reading %s: %v", path, err)
}
