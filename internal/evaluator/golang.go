package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"devconsole/internal/console"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// =============================================================================
// GO EXPRESSIONS VIA YAEGI
// =============================================================================
// The Go language mode interprets Go source with Yaegi instead of compiling it.
//
// SANDBOX RESTRICTIONS:
// - Only whitelisted stdlib packages are loaded (no os, net, exec, syscall, unsafe)
// - Fresh interpreter per evaluation, nothing survives between commands
// - fmt.Print* output is routed to the console capability
// - Timeout enforcement via context

// sandboxPackages is the whitelist of stdlib packages loaded into sandboxed
// Go interpreters.
var sandboxPackages = map[string]bool{
	"strings":         true,
	"strconv":         true,
	"fmt":             true,
	"math":            true,
	"regexp":          true,
	"encoding/json":   true,
	"encoding/base64": true,
	"time":            true,
	"sort":            true,
	"bytes":           true,
	"path":            true,
	"unicode":         true,
	"unicode/utf8":    true,

	// EXPLICITLY BLOCKED:
	// "os", "os/exec", "net", "net/http", "syscall", "unsafe", "path/filepath"
}

// GoSandboxed evaluates Go expressions and statements in an isolated interpreter.
type GoSandboxed struct {
	console *console.Console
	symbols interp.Exports
}

// NewGoSandboxed returns a sandboxed Go evaluator.
func NewGoSandboxed(c *console.Console) *GoSandboxed {
	return &GoSandboxed{console: c, symbols: filterSymbols(sandboxPackages)}
}

// Evaluate interprets source in a new interpreter.
func (g *GoSandboxed) Evaluate(ctx context.Context, source string) (Result, error) {
	i, out, err := newInterpreter(g.console, g.symbols, false)
	if err != nil {
		return Result{}, AsEvaluationError(err)
	}
	return evalGo(ctx, i, out, source)
}

// GoUnrestricted keeps one interpreter with the full stdlib, so declarations
// persist across commands and scripts can touch the filesystem, network and
// environment.
//
// yaegi cannot preempt a running loop, so an interrupted evaluation may keep
// using its interpreter after EvalWithContext returns. That interpreter is
// abandoned and replaced, which drops the declarations made so far.
type GoUnrestricted struct {
	mu      sync.Mutex
	console *console.Console
	i       *interp.Interpreter
	out     *console.LineWriter
}

// NewGoUnrestricted builds the shared interpreter.
func NewGoUnrestricted(c *console.Console) (*GoUnrestricted, error) {
	g := &GoUnrestricted{console: c}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Evaluate interprets source in the shared interpreter. Calls are serialized.
func (g *GoUnrestricted) Evaluate(ctx context.Context, source string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, interrupted(err)
	}
	res, err := evalGo(ctx, g.i, g.out, source)
	var ee *EvaluationError
	if errors.As(err, &ee) && (ee.Kind == KindTimeout || ee.Kind == KindCancelled) {
		if rerr := g.reset(); rerr != nil {
			return Result{}, AsEvaluationError(rerr)
		}
	}
	return res, err
}

func (g *GoUnrestricted) reset() error {
	i, out, err := newInterpreter(g.console, stdlib.Symbols, true)
	if err != nil {
		return err
	}
	g.i, g.out = i, out
	return nil
}

func newInterpreter(c *console.Console, symbols interp.Exports, unrestricted bool) (*interp.Interpreter, *console.LineWriter, error) {
	opts := interp.Options{Unrestricted: unrestricted}

	var out *console.LineWriter
	if c != nil {
		out = c.Writer()
		opts.Stdout = out
		opts.Stderr = out
	}

	i := interp.New(opts)
	if err := i.Use(symbols); err != nil {
		return nil, nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	i.ImportUsed()
	return i, out, nil
}

func evalGo(ctx context.Context, i *interp.Interpreter, out *console.LineWriter, source string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, interrupted(err)
	}
	if out != nil {
		defer out.Flush()
	}

	v, err := i.EvalWithContext(ctx, source)
	if err != nil {
		return Result{}, describeGo(err)
	}

	if !v.IsValid() || !v.CanInterface() {
		return Result{Display: "<nil>"}, nil
	}
	value := v.Interface()
	return Result{Value: value, Display: fmt.Sprint(value)}, nil
}

func describeGo(err error) *EvaluationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return interrupted(err)
	}

	var p interp.Panic
	if errors.As(err, &p) {
		return &EvaluationError{Kind: KindPanic, Description: fmt.Sprint(p.Value), Err: err}
	}
	return &EvaluationError{Kind: KindCompile, Description: err.Error(), Err: err}
}

// filterSymbols keeps the stdlib symbol tables whose import path is allowed.
// Symbol keys have the form "import/path/name", e.g. "encoding/json/json".
func filterSymbols(allowed map[string]bool) interp.Exports {
	out := interp.Exports{}
	for key, syms := range stdlib.Symbols {
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			continue
		}
		if allowed[key[:idx]] {
			out[key] = syms
		}
	}
	return out
}
