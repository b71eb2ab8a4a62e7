// Package config loads devconsole settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all devconsole configuration.
type Config struct {
	// Script evaluation
	Evaluator EvaluatorConfig `yaml:"evaluator"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Evaluator: EvaluatorConfig{
			Mode:     ModeSandboxed,
			Language: LanguageJavaScript,
			Timeout:  "5s",
		},

		UI: UIConfig{
			Theme:       "auto",
			HistorySize: 100,
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			File:      "devconsole.log",
			DebugMode: false,
		},
	}
}

// ConfigDir returns the directory where config is stored.
// A project-local .devconsole directory wins over the home-level one.
func ConfigDir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".devconsole")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".devconsole"), nil
}

// DefaultConfigPath returns the full path to config.yaml, or "" if no
// directory could be resolved.
func DefaultConfigPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
// The result is not validated, so callers can layer flag overrides first.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if mode := os.Getenv("DEVCONSOLE_MODE"); mode != "" {
		c.Evaluator.Mode = mode
	}
	if lang := os.Getenv("DEVCONSOLE_LANG"); lang != "" {
		c.Evaluator.Language = lang
	}
	if timeout := os.Getenv("DEVCONSOLE_TIMEOUT"); timeout != "" {
		c.Evaluator.Timeout = timeout
	}
	if theme := os.Getenv("DEVCONSOLE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if file := os.Getenv("DEVCONSOLE_LOG_FILE"); file != "" {
		c.Logging.File = file
		c.Logging.DebugMode = true
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.Evaluator.Validate(); err != nil {
		return err
	}
	if err := c.UI.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// GetEvalTimeout returns the evaluation timeout as a duration.
// Zero disables the timeout.
func (c *Config) GetEvalTimeout() time.Duration {
	d, err := time.ParseDuration(c.Evaluator.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}
