package config

import "fmt"

// UIConfig configures the terminal console.
type UIConfig struct {
	Theme       string `yaml:"theme" json:"theme,omitempty"`               // auto, light, dark
	HistorySize int    `yaml:"history_size" json:"history_size,omitempty"` // commands kept for Up/Down recall
}

// Validate checks theme and history bounds.
func (u *UIConfig) Validate() error {
	switch u.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui theme %q", u.Theme)
	}
	if u.HistorySize < 0 {
		return fmt.Errorf("ui history_size must not be negative, got %d", u.HistorySize)
	}
	return nil
}
