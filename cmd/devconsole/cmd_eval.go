package main

import (
	"context"

	"github.com/spf13/cobra"
)

// evalCmd evaluates a single command
var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate one expression and print the appended log records",
	Example: `  devconsole eval "2 + 2"
  devconsole eval --unrestricted "process.env.HOME"
  devconsole eval --lang go 'strings.Repeat("ab", 3)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	a.echoTo(cmd.ErrOrStderr())

	a.session.SetInput(joinArgs(args))
	out, err := a.session.Submit(context.Background())
	if err != nil {
		return err
	}

	a.printSince(cmd.OutOrStdout(), 0)
	if !out.OK() {
		return errEvaluationFailed
	}
	return nil
}
