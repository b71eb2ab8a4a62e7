// Package logging provides config-driven categorized logging for devconsole.
// Logs go to a single file (never stdout, which the terminal UI owns) and each
// subsystem logs through a named zap child logger for its category.
// Logging is controlled by debug_mode in config.yaml - when false, nothing is written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"devconsole/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryEval    Category = "eval"    // Evaluator lifecycle and command outcomes
	CategoryConsole Category = "console" // Script console output sink
	CategoryUI      Category = "ui"      // Terminal UI events
	CategoryWatch   Category = "watch"   // File watcher
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	current config.LoggingConfig
	path    string
)

// Initialize builds the root logger from cfg. File paths are resolved
// relative to baseDir. With debug mode off the root logger is a no-op.
func Initialize(cfg config.LoggingConfig, baseDir string) error {
	if !cfg.DebugMode {
		SetRoot(zap.NewNop(), cfg)
		return nil
	}

	logPath := cfg.File
	if logPath == "" {
		logPath = "devconsole.log"
	}
	if !filepath.IsAbs(logPath) && baseDir != "" {
		logPath = filepath.Join(baseDir, logPath)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	encoding := "json"
	if cfg.Format == "text" {
		encoding = "console"
	}

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetRoot(logger, cfg)

	mu.Lock()
	path = logPath
	mu.Unlock()

	boot := Get(CategoryBoot)
	boot.Info("logging initialized",
		zap.String("file", logPath),
		zap.String("level", cfg.Level),
		zap.Int("categories", len(cfg.Categories)))
	return nil
}

// SetRoot replaces the root logger. Tests use it to install an observer.
func SetRoot(logger *zap.Logger, cfg config.LoggingConfig) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	root = logger
	current = cfg
}

// Get returns the named logger for category, or a no-op logger when the
// category is switched off.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if current.DebugMode && !current.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return root.Named(string(category))
}

// Path returns the active log file, or "" when logging is disabled.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return path
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
