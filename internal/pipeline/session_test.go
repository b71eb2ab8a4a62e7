package pipeline

import (
	"context"
	"sync"
	"testing"

	"devconsole/internal/evaluator"
	"devconsole/internal/logbuf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SubmitClearsInput(t *testing.T) {
	p, _ := newTestPipeline(t)
	s := NewSession(p, 10)

	s.SetInput("2 + 2")
	assert.Equal(t, "2 + 2", s.Input())
	out, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Empty(t, s.Input())

	s.SetInput("undefinedVar.x")
	out, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, out.OK())
	assert.Empty(t, s.Input(), "input clears on failure too")
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_History(t *testing.T) {
	p, _ := newTestPipeline(t)
	s := NewSession(p, 2)

	for _, in := range []string{"1", "1", "", "2", "3"} {
		s.SetInput(in)
		_, err := s.Submit(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"2", "3"}, s.History())
}

func TestSession_NoHistory(t *testing.T) {
	p, _ := newTestPipeline(t)
	s := NewSession(p, 0)

	s.SetInput("1")
	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.History())
}

type blockingEvaluator struct {
	started chan struct{}
	release chan struct{}
}

func (b blockingEvaluator) Evaluate(context.Context, string) (evaluator.Result, error) {
	close(b.started)
	<-b.release
	return evaluator.Result{Display: "done"}, nil
}

func TestSession_BusyWhileExecuting(t *testing.T) {
	ev := blockingEvaluator{started: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(New(ev, logbuf.NewBuffer()), 10)
	s.SetInput("slow()")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Submit(context.Background())
	}()

	<-ev.started
	assert.Equal(t, StateExecuting, s.State())
	assert.Equal(t, "executing", s.State().String())
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(ev.release)
	wg.Wait()
	assert.Equal(t, StateIdle, s.State())
}
