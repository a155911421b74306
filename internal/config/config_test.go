package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/agbru/secretsanta/internal/errors"
)

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	var stderr bytes.Buffer
	return ParseConfig("secretsanta", args, &stderr)
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "santa.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if cfg.Endpoint != "https://secret-santa-be.vercel.app/api/secret-santa" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.OutputName != "secret_santa_assignments.xlsx" || cfg.OutputDir != "." {
		t.Errorf("output = %q/%q", cfg.OutputDir, cfg.OutputName)
	}
	if !cfg.Interactive() {
		t.Error("no input files should select the interactive surface")
	}
	if cfg.Theme != "festive" {
		t.Errorf("Theme = %q, want festive", cfg.Theme)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	cfg, err := parse(t,
		"-endpoint", "http://localhost:8080/api",
		"-employees", "e.xlsx",
		"-last-year", "l.xlsx",
		"-out", "/tmp/out",
		"-log-level", "debug",
		"-no-color",
	)
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if cfg.Endpoint != "http://localhost:8080/api" || cfg.EmployeesFile != "e.xlsx" || cfg.LastYearFile != "l.xlsx" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.OutputDir != "/tmp/out" || cfg.LogLevel != "debug" || !cfg.NoColor {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Interactive() {
		t.Error("both files given should select one-shot mode")
	}
}

func TestParseConfig_Help(t *testing.T) {
	_, err := parse(t, "-h")
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("error = %v, want flag.ErrHelp", err)
	}
}

func TestParseConfig_UnexpectedArgs(t *testing.T) {
	_, err := parse(t, "extra")
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %v, want ConfigError", err)
	}
}

func TestParseConfig_Precedence(t *testing.T) {
	yamlPath := writeYAML(t, `
endpoint: http://from-yaml.example/api
output_name: yaml.xlsx
log_level: warn
tui: true
theme: light
`)

	t.Run("yaml over defaults", func(t *testing.T) {
		cfg, err := parse(t, "-config", yamlPath)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Endpoint != "http://from-yaml.example/api" || cfg.OutputName != "yaml.xlsx" || !cfg.TUI {
			t.Errorf("yaml layer not applied: %+v", cfg)
		}
		if cfg.Theme != "light" {
			t.Errorf("Theme = %q, want light from yaml", cfg.Theme)
		}
		if cfg.ConfigFile != yamlPath {
			t.Errorf("ConfigFile = %q", cfg.ConfigFile)
		}
	})

	t.Run("env over yaml", func(t *testing.T) {
		t.Setenv("SANTA_ENDPOINT", "http://from-env.example/api")
		t.Setenv("SANTA_TUI", "no")
		t.Setenv("SANTA_THEME", "none")
		cfg, err := parse(t, "-config", yamlPath)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Theme != "none" {
			t.Errorf("Theme = %q, want none from env", cfg.Theme)
		}
		if cfg.Endpoint != "http://from-env.example/api" || cfg.TUI {
			t.Errorf("env layer not applied: %+v", cfg)
		}
		if cfg.OutputName != "yaml.xlsx" {
			t.Errorf("yaml value lost: %q", cfg.OutputName)
		}
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("SANTA_ENDPOINT", "http://from-env.example/api")
		cfg, err := parse(t, "-config", yamlPath, "-endpoint", "https://from-flag.example/api", "-name", "flag.xlsx")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Endpoint != "https://from-flag.example/api" || cfg.OutputName != "flag.xlsx" {
			t.Errorf("flag layer not applied: %+v", cfg)
		}
	})

	t.Run("config path from env", func(t *testing.T) {
		t.Setenv("SANTA_CONFIG", yamlPath)
		cfg, err := parse(t)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.OutputName != "yaml.xlsx" {
			t.Errorf("SANTA_CONFIG not honored: %+v", cfg)
		}
	})
}

func TestParseConfig_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := parse(t, "-config", filepath.Join(t.TempDir(), "none.yaml"))
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("error = %v, want ConfigError", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := parse(t, "-config", writeYAML(t, "endpoint: [unclosed"))
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("error = %v, want ConfigError", err)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SANTA_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}

	t.Setenv(key, "from-env")
	if err := loadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(key); got != "from-env" {
		t.Errorf(".env must not override the environment, got %q", got)
	}

	os.Unsetenv(key)
	if err := loadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("%s = %q, want from-dotenv", key, got)
	}
}

func TestAppConfig_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", func(*AppConfig) {}, false},
		{"http endpoint", func(c *AppConfig) { c.Endpoint = "http://127.0.0.1:9000/x" }, false},
		{"ftp endpoint", func(c *AppConfig) { c.Endpoint = "ftp://example.com" }, true},
		{"no host", func(c *AppConfig) { c.Endpoint = "https://" }, true},
		{"empty name", func(c *AppConfig) { c.OutputName = "" }, true},
		{"name with slash", func(c *AppConfig) { c.OutputName = "../evil.xlsx" }, true},
		{"name with backslash", func(c *AppConfig) { c.OutputName = `a\b.xlsx` }, true},
		{"dot dot", func(c *AppConfig) { c.OutputName = ".." }, true},
		{"bad level", func(c *AppConfig) { c.LogLevel = "loud" }, true},
		{"upper level", func(c *AppConfig) { c.LogLevel = "DEBUG" }, false},
		{"light theme", func(c *AppConfig) { c.Theme = "light" }, false},
		{"unknown theme", func(c *AppConfig) { c.Theme = "neon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"TRUE", false, true},
		{"yes", false, true},
		{"0", true, false},
		{"No", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v", tt.in, tt.def, got)
		}
	}
}
