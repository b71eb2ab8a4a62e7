package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Submit while a previous command is still executing.
var ErrBusy = errors.New("a command is already executing")

// State is the session's execution state.
type State int

const (
	StateIdle State = iota
	StateExecuting
)

func (s State) String() string {
	if s == StateExecuting {
		return "executing"
	}
	return "idle"
}

// Session holds the command input the user is editing and the history of
// submitted commands. It is the bridge between an input surface (terminal
// UI, line reader) and the pipeline.
type Session struct {
	pipeline *Pipeline

	mu          sync.Mutex
	input       string
	state       State
	history     []string
	historySize int
}

// NewSession binds a session to p, keeping at most historySize submitted
// commands (0 keeps none).
func NewSession(p *Pipeline, historySize int) *Session {
	return &Session{pipeline: p, historySize: historySize}
}

// Pipeline returns the pipeline commands are submitted to.
func (s *Session) Pipeline() *Pipeline { return s.pipeline }

// SetInput replaces the pending command text.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the pending command text.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// State reports whether a command is executing.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns submitted commands, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Submit executes the pending input and clears it, whatever the outcome.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.state == StateExecuting {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	s.state = StateExecuting
	input := s.input
	s.mu.Unlock()

	out := s.pipeline.Execute(ctx, input)

	s.mu.Lock()
	s.input = ""
	s.state = StateIdle
	s.remember(input)
	s.mu.Unlock()

	return out, nil
}

// remember appends to history, skipping blanks and immediate repeats.
// Caller holds s.mu.
func (s *Session) remember(input string) {
	if s.historySize <= 0 || input == "" {
		return
	}
	if n := len(s.history); n > 0 && s.history[n-1] == input {
		return
	}
	s.history = append(s.history, input)
	if over := len(s.history) - s.historySize; over > 0 {
		s.history = append([]string(nil), s.history[over:]...)
	}
}
