package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"devconsole/internal/logging"
	"devconsole/internal/watch"

	"github.com/spf13/cobra"
)

var watchFile bool

// runCmd evaluates a script file, optionally on every change
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Evaluate a script file as one command",
	Long: `Evaluate the contents of a script file through the same pipeline as a typed
command. With --watch the file is re-evaluated every time it is written,
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	a.echoTo(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	var (
		mu      sync.Mutex
		printed int
		failed  bool
	)
	handler := func(ctx context.Context, source string) {
		mu.Lock()
		defer mu.Unlock()
		res := a.pipeline.Execute(ctx, source)
		failed = !res.OK()
		printed = a.printSince(out, printed)
	}

	w := watch.New(args[0], 100*time.Millisecond, logging.Get(logging.CategoryWatch))
	if !watchFile {
		if err := w.RunOnce(ctx, handler); err != nil {
			return err
		}
		if failed {
			return errEvaluationFailed
		}
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (Ctrl+C to stop)\n", args[0])
	return w.Watch(ctx, handler)
}
