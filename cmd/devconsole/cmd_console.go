package main

import (
	"os"

	"devconsole/cmd/devconsole/tui"
	"devconsole/cmd/devconsole/ui"
	"devconsole/internal/logging"

	"golang.org/x/term"
)

// runConsole starts the interactive console, or line mode when stdin is not
// a terminal (pipes, CI).
func runConsole() error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runLines(a, os.Stdin, os.Stdout, false)
	}

	return tui.Run(tui.Config{
		Session:  a.session,
		Styles:   ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		Mode:     cfg.Evaluator.Mode,
		Language: cfg.Evaluator.Language,
		LogPath:  logging.Path(),
		Logger:   logging.Get(logging.CategoryUI),
	})
}
