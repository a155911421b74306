package config

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/secretsanta/internal/errors"
)

// fileConfig mirrors the YAML configuration file. Absent keys leave the
// lower layers untouched.
type fileConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Employees   string `yaml:"employees"`
	LastYear    string `yaml:"last_year"`
	OutputDir   string `yaml:"output_dir"`
	OutputName  string `yaml:"output_name"`
	TUI         *bool  `yaml:"tui"`
	NoColor     *bool  `yaml:"no_color"`
	Theme       string `yaml:"theme"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsFile string `yaml:"metrics_file"`
}

func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}
	return fc, nil
}

// apply copies set values into config, skipping options given as flags.
func (fc fileConfig) apply(config *AppConfig, fs *flag.FlagSet) {
	setString := func(flagName, v string, dst *string) {
		if v != "" && !isFlagSet(fs, flagName) {
			*dst = v
		}
	}
	setBool := func(flagName string, v *bool, dst *bool) {
		if v != nil && !isFlagSet(fs, flagName) {
			*dst = *v
		}
	}

	setString("endpoint", fc.Endpoint, &config.Endpoint)
	setString("employees", fc.Employees, &config.EmployeesFile)
	setString("last-year", fc.LastYear, &config.LastYearFile)
	setString("out", fc.OutputDir, &config.OutputDir)
	setString("name", fc.OutputName, &config.OutputName)
	setBool("tui", fc.TUI, &config.TUI)
	setBool("no-color", fc.NoColor, &config.NoColor)
	setString("theme", fc.Theme, &config.Theme)
	setString("log-level", fc.LogLevel, &config.LogLevel)
	setString("log-file", fc.LogFile, &config.LogFile)
	setString("metrics-file", fc.MetricsFile, &config.MetricsFile)
}
