package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devconsole/internal/config"
	"devconsole/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	unrestricted bool
	language     string
	timeout      time.Duration
	theme        string
	echoConsole  bool

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// errEvaluationFailed makes the process exit non-zero after a command whose
// error records were already printed.
var errEvaluationFailed = errors.New("evaluation failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "devconsole",
	Short: "devconsole - evaluate script expressions against a live log view",
	Long: `devconsole is a developer console: a scrolling log plus a command input.

Each command is sanitized (typographic quotes become ASCII), evaluated, and
echoed to the log together with its result or error. Script calls to
console.log are captured into the same log.

Commands run in a sandboxed interpreter by default. --unrestricted opts into
a persistent interpreter with access to host state.

Run without arguments to start the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = resolveConfig(cmd)
		if err != nil {
			return err
		}

		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		if err := logging.Initialize(cfg.Logging, logBaseDir()); err != nil {
			return err
		}
		logger = logging.Get(logging.CategoryBoot)
		logger.Info("starting",
			zap.String("command", cmd.Name()),
			zap.String("mode", cfg.Evaluator.Mode),
			zap.String("language", cfg.Evaluator.Language))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive console
		return runConsole()
	},
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("unrestricted") {
		if unrestricted {
			c.Evaluator.Mode = config.ModeUnrestricted
		} else {
			c.Evaluator.Mode = config.ModeSandboxed
		}
	}
	if flags.Changed("lang") {
		c.Evaluator.Language = language
	}
	if flags.Changed("timeout") {
		c.Evaluator.Timeout = timeout.String()
	}
	if flags.Changed("theme") {
		c.UI.Theme = theme
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// logBaseDir anchors relative log file paths next to the config file.
func logBaseDir() string {
	if configPath != "" {
		return filepath.Dir(configPath)
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to the log file")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .devconsole/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&unrestricted, "unrestricted", false, "Evaluate with full access to host state (persistent globals, process.env)")
	rootCmd.PersistentFlags().StringVarP(&language, "lang", "l", config.LanguageJavaScript, "Script language: javascript or go")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-command evaluation timeout (0 disables)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "auto", "Color theme: auto, light or dark")

	runCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Re-run the script whenever the file changes")
	for _, cmd := range []*cobra.Command{evalCmd, runCmd, replCmd} {
		cmd.Flags().BoolVar(&echoConsole, "echo", false, "Also write script console output to stderr as plain lines")
	}

	// Add commands to root
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errEvaluationFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
