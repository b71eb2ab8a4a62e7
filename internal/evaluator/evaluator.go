// Package evaluator runs user-typed script text and returns its value.
//
// Evaluation policy is a capability boundary chosen at construction time:
// sandboxed evaluators see only language built-ins, the console capability
// and an explicit variable context; unrestricted evaluators expose host
// state and keep globals between calls. Sandboxed is the default.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"devconsole/internal/console"
)

// Evaluator executes source text. Every error it returns is an *EvaluationError.
type Evaluator interface {
	Evaluate(ctx context.Context, source string) (Result, error)
}

// Result is a successfully evaluated value.
type Result struct {
	// Value is the exported Go value (nil for undefined/null or no value).
	Value any
	// Display is the value coerced to its display form, e.g. "4" or "undefined".
	Display string
}

// Error kinds that are not script error names.
const (
	KindTimeout   = "Timeout"
	KindCancelled = "Cancelled"
	KindCompile   = "CompileError"
	KindPanic     = "Panic"
)

// EvaluationError is any failure during evaluation: syntax, reference,
// runtime-thrown value, or an interrupted run.
type EvaluationError struct {
	// Kind is the script error name (SyntaxError, ReferenceError, TypeError, ...)
	// or one of the Kind* constants.
	Kind string
	// Description is the human-readable failure text shown after "Error: ".
	Description string
	Err         error
}

func (e *EvaluationError) Error() string {
	return e.Kind + ": " + e.Description
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// AsEvaluationError converts any error into an *EvaluationError.
func AsEvaluationError(err error) *EvaluationError {
	if err == nil {
		return nil
	}
	var ee *EvaluationError
	if errors.As(err, &ee) {
		return ee
	}
	return &EvaluationError{Kind: "Error", Description: err.Error(), Err: err}
}

func interrupted(cause error) *EvaluationError {
	if errors.Is(cause, context.Canceled) {
		return &EvaluationError{Kind: KindCancelled, Description: "evaluation cancelled", Err: cause}
	}
	return &EvaluationError{Kind: KindTimeout, Description: "evaluation timed out", Err: cause}
}

// Mode selects the evaluation policy.
type Mode string

const (
	ModeSandboxed    Mode = "sandboxed"
	ModeUnrestricted Mode = "unrestricted"
)

// Language selects the scripting engine.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageGo         Language = "go"
)

// Options configure New.
type Options struct {
	Mode     Mode
	Language Language
	// Console receives the script's console output. May be nil.
	Console *console.Console
	// Vars is the explicit variable context made visible to the script.
	Vars map[string]any
}

// New builds the evaluator for opts. Empty Mode and Language default to
// sandboxed JavaScript.
func New(opts Options) (Evaluator, error) {
	if opts.Mode == "" {
		opts.Mode = ModeSandboxed
	}
	if opts.Language == "" {
		opts.Language = LanguageJavaScript
	}

	switch {
	case opts.Language == LanguageJavaScript && opts.Mode == ModeSandboxed:
		return NewSandboxed(opts.Console, opts.Vars), nil
	case opts.Language == LanguageJavaScript && opts.Mode == ModeUnrestricted:
		return NewUnrestricted(opts.Console, opts.Vars)
	case opts.Language == LanguageGo && opts.Mode == ModeSandboxed:
		return NewGoSandboxed(opts.Console), nil
	case opts.Language == LanguageGo && opts.Mode == ModeUnrestricted:
		return NewGoUnrestricted(opts.Console)
	}
	return nil, fmt.Errorf("unsupported evaluator %s/%s", opts.Language, opts.Mode)
}
