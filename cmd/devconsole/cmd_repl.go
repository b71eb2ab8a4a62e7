package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// replCmd runs the console in line mode
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Line-mode console over stdin/stdout",
	Long: `Read one command per line from stdin, evaluate it, and print the records it
appended. Useful where a full-screen terminal is unavailable. Ctrl+D exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		a.echoTo(cmd.ErrOrStderr())
		return runLines(a, cmd.InOrStdin(), cmd.OutOrStdout(), true)
	},
}

// runLines submits each input line and prints what it appended.
func runLines(a *app, in io.Reader, out io.Writer, prompt bool) error {
	reader := bufio.NewReader(in)
	printed := a.printSince(out, 0)

	if prompt {
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "devconsole %s (%s) - Ctrl+D to exit\n", a.cfg.Evaluator.Language, a.cfg.Evaluator.Mode)
		fmt.Fprintln(out, strings.Repeat("─", 60))
	}

	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				if prompt {
					fmt.Fprintln(out)
				}
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		a.session.SetInput(strings.TrimRight(line, "\r\n"))
		if _, serr := a.session.Submit(context.Background()); serr != nil {
			return serr
		}
		printed = a.printSince(out, printed)

		if err == io.EOF {
			return nil
		}
	}
}
