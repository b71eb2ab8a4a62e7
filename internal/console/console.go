// Package console implements the script-visible logging capability.
//
// A Console is created once at startup and handed to whichever evaluator
// needs it. Every call both performs the normal output side effect (the zap
// "console" sink, plus an optional plain echo writer) and appends a record to
// the shared log buffer.
package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"devconsole/internal/logbuf"

	"go.uber.org/zap"
)

// Console records script output into a log buffer.
type Console struct {
	buf  *logbuf.Buffer
	sink *zap.Logger

	mu   sync.Mutex
	echo io.Writer
}

// New returns a console writing into buf. A nil sink discards the output side effect.
func New(buf *logbuf.Buffer, sink *zap.Logger) *Console {
	if sink == nil {
		sink = zap.NewNop()
	}
	return &Console{buf: buf, sink: sink}
}

// SetEcho installs a writer that receives every message as a plain line,
// like a terminal's stdout would. Pass nil to disable.
func (c *Console) SetEcho(w io.Writer) {
	c.mu.Lock()
	c.echo = w
	c.mu.Unlock()
}

// Buffer returns the buffer records are appended to.
func (c *Console) Buffer() *logbuf.Buffer {
	return c.buf
}

// Log records args joined by a single space at level "log".
func (c *Console) Log(args ...string) {
	c.Record(logbuf.LevelLog, args...)
}

// Record writes one message at level and appends it to the buffer.
func (c *Console) Record(level logbuf.Level, args ...string) {
	msg := strings.Join(args, " ")

	switch level {
	case logbuf.LevelError:
		c.sink.Warn(msg, zap.String("level", string(level)))
	default:
		c.sink.Info(msg, zap.String("level", string(level)))
	}

	c.mu.Lock()
	if c.echo != nil {
		fmt.Fprintln(c.echo, msg)
	}
	c.mu.Unlock()

	c.buf.Append(logbuf.New(level, msg))
}

// Writer returns an io.Writer that turns each written line into a "log"
// record. Call Flush on it to emit a trailing unterminated line.
func (c *Console) Writer() *LineWriter {
	return &LineWriter{console: c}
}

// LineWriter adapts line-oriented output to console records.
type LineWriter struct {
	console *Console
	mu      sync.Mutex
	pending bytes.Buffer
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending.Write(p)
	for {
		line, err := w.pending.ReadString('\n')
		if err != nil {
			// Incomplete line: put it back for the next write.
			w.pending.Reset()
			w.pending.WriteString(line)
			break
		}
		w.console.Log(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending.Len() == 0 {
		return
	}
	line := w.pending.String()
	w.pending.Reset()
	w.console.Log(line)
}
