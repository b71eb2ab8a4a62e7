package main

import (
	"fmt"
	"io"

	"devconsole/internal/config"
	"devconsole/internal/console"
	"devconsole/internal/evaluator"
	"devconsole/internal/logbuf"
	"devconsole/internal/logging"
	"devconsole/internal/pipeline"
)

// app wires the log buffer, console capability, evaluator and pipeline.
// One app lives for the whole process.
type app struct {
	cfg      *config.Config
	buf      *logbuf.Buffer
	console  *console.Console
	pipeline *pipeline.Pipeline
	session  *pipeline.Session
}

func newApp(c *config.Config) (*app, error) {
	buf := logbuf.NewBuffer()
	con := console.New(buf, logging.Get(logging.CategoryConsole))

	ev, err := evaluator.New(evaluator.Options{
		Mode:     evaluator.Mode(c.Evaluator.Mode),
		Language: evaluator.Language(c.Evaluator.Language),
		Console:  con,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	p := pipeline.New(ev, buf,
		pipeline.WithTimeout(c.GetEvalTimeout()),
		pipeline.WithLogger(logging.Get(logging.CategoryEval)))

	return &app{
		cfg:      c,
		buf:      buf,
		console:  con,
		pipeline: p,
		session:  pipeline.NewSession(p, c.UI.HistorySize),
	}, nil
}

// echoTo sends plain console output to w when --echo is set.
func (a *app) echoTo(w io.Writer) {
	if echoConsole {
		a.console.SetEcho(w)
	}
}

// printSince writes records appended at or after index n and returns the
// new buffer length.
func (a *app) printSince(w io.Writer, n int) int {
	for _, r := range a.buf.Since(n) {
		fmt.Fprintln(w, r.Format())
		n++
	}
	return n
}
