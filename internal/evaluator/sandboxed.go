package evaluator

import (
	"context"
	"fmt"

	"devconsole/internal/console"

	"github.com/dop251/goja"
)

// Sandboxed evaluates JavaScript in a fresh isolated runtime per call.
// Nothing from the host is reachable except the console capability and the
// explicit variable context; state never carries over between calls.
type Sandboxed struct {
	console *console.Console
	vars    map[string]any
}

// NewSandboxed returns a sandboxed JavaScript evaluator. vars may be nil,
// which supplies an empty context.
func NewSandboxed(c *console.Console, vars map[string]any) *Sandboxed {
	ctxVars := make(map[string]any, len(vars))
	for k, v := range vars {
		ctxVars[k] = v
	}
	return &Sandboxed{console: c, vars: ctxVars}
}

// Evaluate runs source in a new runtime.
func (s *Sandboxed) Evaluate(ctx context.Context, source string) (Result, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	if err := bindConsole(vm, s.console); err != nil {
		return Result{}, AsEvaluationError(err)
	}
	for name, value := range s.vars {
		if err := vm.Set(name, value); err != nil {
			return Result{}, AsEvaluationError(fmt.Errorf("bind %s: %w", name, err))
		}
	}

	res, err := runJS(ctx, vm, source)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
