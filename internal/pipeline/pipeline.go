// Package pipeline turns a typed command into log records:
// sanitize, evaluate, record the outcome.
package pipeline

import (
	"context"
	"time"

	"devconsole/internal/evaluator"
	"devconsole/internal/logbuf"
	"devconsole/internal/sanitize"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Prompt prefixes the echoed command in the log.
const Prompt = "> "

// ErrorPrefix prefixes the failure description in the log.
const ErrorPrefix = "Error: "

// Outcome describes one execution.
type Outcome struct {
	ID        string
	Input     string
	Sanitized string
	Result    evaluator.Result
	Err       *evaluator.EvaluationError
	// Records are the records this execution appended, in order.
	Records  []logbuf.Record
	Duration time.Duration
}

// OK reports whether evaluation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Pipeline evaluates commands and appends their outcome to a buffer.
type Pipeline struct {
	eval    evaluator.Evaluator
	buf     *logbuf.Buffer
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout bounds each evaluation. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithLogger sets the logger for execution events.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New returns a pipeline evaluating with ev and appending to buf.
func New(ev evaluator.Evaluator, buf *logbuf.Buffer, opts ...Option) *Pipeline {
	p := &Pipeline{
		eval:   ev,
		buf:    buf,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Buffer returns the buffer the pipeline appends to.
func (p *Pipeline) Buffer() *logbuf.Buffer { return p.buf }

// Execute sanitizes input, evaluates it and appends exactly two records:
// on success an info echo of the original input and the result; on failure
// an error echo of the sanitized input and the error description.
// Evaluation failures never escape as errors or panics.
func (p *Pipeline) Execute(ctx context.Context, input string) Outcome {
	out := Outcome{
		ID:        uuid.NewString(),
		Input:     input,
		Sanitized: sanitize.Sanitize(input),
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := p.evaluate(ctx, out.Sanitized)
	out.Duration = time.Since(start)

	if err != nil {
		out.Err = evaluator.AsEvaluationError(err)
		out.Records = []logbuf.Record{
			{Time: p.now(), Level: logbuf.LevelError, Message: Prompt + out.Sanitized},
			{Time: p.now(), Level: logbuf.LevelError, Message: ErrorPrefix + out.Err.Description},
		}
		p.logger.Debug("command failed",
			zap.String("id", out.ID),
			zap.String("kind", out.Err.Kind),
			zap.String("description", out.Err.Description),
			zap.Duration("duration", out.Duration))
	} else {
		out.Result = res
		out.Records = []logbuf.Record{
			{Time: p.now(), Level: logbuf.LevelInfo, Message: Prompt + input},
			{Time: p.now(), Level: logbuf.LevelResult, Message: res.Display},
		}
		p.logger.Debug("command evaluated",
			zap.String("id", out.ID),
			zap.Int("input_len", len(input)),
			zap.Duration("duration", out.Duration))
	}

	p.buf.Append(out.Records...)
	return out
}

// evaluate shields the caller from evaluator panics.
func (p *Pipeline) evaluate(ctx context.Context, src string) (res evaluator.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("evaluator panicked", zap.Any("panic", r))
			err = &evaluator.EvaluationError{Kind: evaluator.KindPanic, Description: panicText(r)}
		}
	}()
	return p.eval.Evaluate(ctx, src)
}

func panicText(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	}
	return "evaluator panic"
}
