package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"devconsole/internal/console"
	"devconsole/internal/evaluator"
	"devconsole/internal/logbuf"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Level   logbuf.Level
	Message string
}

func entries(records []logbuf.Record) []entry {
	out := make([]entry, len(records))
	for i, r := range records {
		out[i] = entry{r.Level, r.Message}
	}
	return out
}

func newTestPipeline(t *testing.T) (*Pipeline, *logbuf.Buffer) {
	t.Helper()
	buf := logbuf.NewBuffer()
	ev := evaluator.NewSandboxed(console.New(buf, nil), nil)
	return New(ev, buf, WithTimeout(time.Second)), buf
}

func TestExecute_Arithmetic(t *testing.T) {
	p, buf := newTestPipeline(t)

	out := p.Execute(context.Background(), "2 + 2")

	require.True(t, out.OK())
	assert.Equal(t, "4", out.Result.Display)
	assert.NotEmpty(t, out.ID)
	want := []entry{
		{logbuf.LevelInfo, "> 2 + 2"},
		{logbuf.LevelResult, "4"},
	}
	if diff := cmp.Diff(want, entries(buf.Snapshot())); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want, entries(out.Records))
}

func TestExecute_TypographicQuotesAndConsoleCapture(t *testing.T) {
	p, buf := newTestPipeline(t)

	out := p.Execute(context.Background(), "console.log(’hi’)")

	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	assert.Equal(t, "console.log('hi')", out.Sanitized)
	want := []entry{
		{logbuf.LevelLog, "hi"},
		{logbuf.LevelInfo, "> console.log(’hi’)"},
		{logbuf.LevelResult, "undefined"},
	}
	if diff := cmp.Diff(want, entries(buf.Snapshot())); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_ReferenceError(t *testing.T) {
	p, buf := newTestPipeline(t)

	out := p.Execute(context.Background(), "undefinedVar.x")

	require.False(t, out.OK())
	assert.Equal(t, "ReferenceError", out.Err.Kind)
	want := []entry{
		{logbuf.LevelError, "> undefinedVar.x"},
		{logbuf.LevelError, "Error: undefinedVar is not defined"},
	}
	assert.Equal(t, want, entries(buf.Snapshot()))
}

func TestExecute_FailureEchoesSanitizedInput(t *testing.T) {
	p, buf := newTestPipeline(t)

	p.Execute(context.Background(), "nope(“x”)")

	records := buf.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, `> nope("x")`, records[0].Message)
	assert.Equal(t, "Error: nope is not defined", records[1].Message)
}

func TestExecute_SandboxHidesHostGlobals(t *testing.T) {
	p, _ := newTestPipeline(t)

	out := p.Execute(context.Background(), "window")

	require.False(t, out.OK())
	assert.Equal(t, "Error: window is not defined", out.Records[1].Message)
}

func TestExecute_EmptyInput(t *testing.T) {
	p, buf := newTestPipeline(t)

	out := p.Execute(context.Background(), "")

	require.True(t, out.OK())
	assert.Equal(t, []entry{
		{logbuf.LevelInfo, "> "},
		{logbuf.LevelResult, "undefined"},
	}, entries(buf.Snapshot()))
}

func TestExecute_Timeout(t *testing.T) {
	buf := logbuf.NewBuffer()
	p := New(evaluator.NewSandboxed(nil, nil), buf, WithTimeout(50*time.Millisecond))

	out := p.Execute(context.Background(), "for (;;) {}")

	require.False(t, out.OK())
	assert.Equal(t, evaluator.KindTimeout, out.Err.Kind)
	assert.Equal(t, "Error: evaluation timed out", buf.Snapshot()[1].Message)
}

func TestExecute_Clock(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 13, 14, 15, 0, time.Local)
	buf := logbuf.NewBuffer()
	p := New(evaluator.NewSandboxed(nil, nil), buf, WithClock(func() time.Time { return fixed }))

	p.Execute(context.Background(), "1")

	for _, r := range buf.Snapshot() {
		assert.Equal(t, fixed, r.Time)
	}
	assert.Equal(t, "13:14:15 [result] - 1", buf.Snapshot()[1].Format())
}

type panickingEvaluator struct{}

func (panickingEvaluator) Evaluate(context.Context, string) (evaluator.Result, error) {
	panic("engine exploded")
}

func TestExecute_EvaluatorPanicIsContained(t *testing.T) {
	buf := logbuf.NewBuffer()
	p := New(panickingEvaluator{}, buf)

	var out Outcome
	require.NotPanics(t, func() { out = p.Execute(context.Background(), "x") })
	require.False(t, out.OK())
	assert.Equal(t, "Error: engine exploded", buf.Snapshot()[1].Message)
}

type plainErrorEvaluator struct{}

func (plainErrorEvaluator) Evaluate(context.Context, string) (evaluator.Result, error) {
	return evaluator.Result{}, fmt.Errorf("backend gone")
}

func TestExecute_NonEvaluationErrorIsConverted(t *testing.T) {
	buf := logbuf.NewBuffer()
	out := New(plainErrorEvaluator{}, buf).Execute(context.Background(), "x")

	require.False(t, out.OK())
	assert.Equal(t, "Error: backend gone", out.Records[1].Message)
}

func TestExecute_UnrestrictedKeepsState(t *testing.T) {
	buf := logbuf.NewBuffer()
	ev, err := evaluator.NewUnrestricted(console.New(buf, nil), nil)
	require.NoError(t, err)
	p := New(ev, buf)

	p.Execute(context.Background(), "var total = 1")
	out := p.Execute(context.Background(), "total + 1")

	require.True(t, out.OK())
	assert.Equal(t, "2", out.Result.Display)
}

func TestExecute_RecordsNeverReordered(t *testing.T) {
	p, buf := newTestPipeline(t)

	var prev []logbuf.Record
	for _, in := range []string{"1", "bad(", "console.log('x')", "'s'"} {
		p.Execute(context.Background(), in)
		cur := buf.Snapshot()
		require.GreaterOrEqual(t, len(cur), len(prev))
		if diff := cmp.Diff(prev, cur[:len(prev)], cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("existing records changed (-before +after):\n%s", diff)
		}
		prev = cur
	}
}
