package config

import (
	"fmt"
	"time"
)

// Evaluation modes.
const (
	ModeSandboxed    = "sandboxed"
	ModeUnrestricted = "unrestricted"
)

// Script languages.
const (
	LanguageJavaScript = "javascript"
	LanguageGo         = "go"
)

// EvaluatorConfig selects how typed commands are evaluated.
type EvaluatorConfig struct {
	// sandboxed (default) or unrestricted. Unrestricted grants the script
	// full access to host state and must be opted into explicitly.
	Mode string `yaml:"mode" json:"mode,omitempty"`

	// javascript (default) or go
	Language string `yaml:"language" json:"language,omitempty"`

	// Per-evaluation timeout, e.g. "5s". "0" disables it.
	Timeout string `yaml:"timeout" json:"timeout,omitempty"`
}

// Validate rejects unknown modes, languages and malformed timeouts.
func (e *EvaluatorConfig) Validate() error {
	switch e.Mode {
	case ModeSandboxed, ModeUnrestricted:
	default:
		return fmt.Errorf("invalid evaluator mode %q (want %s or %s)", e.Mode, ModeSandboxed, ModeUnrestricted)
	}

	switch e.Language {
	case LanguageJavaScript, LanguageGo:
	default:
		return fmt.Errorf("invalid evaluator language %q (want %s or %s)", e.Language, LanguageJavaScript, LanguageGo)
	}

	if e.Timeout != "" {
		d, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return fmt.Errorf("invalid evaluator timeout %q: %w", e.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("evaluator timeout must not be negative, got %s", e.Timeout)
		}
	}
	return nil
}
