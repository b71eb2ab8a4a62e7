package evaluator

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"devconsole/internal/console"

	"github.com/dop251/goja"
)

// Unrestricted evaluates JavaScript in one long-lived runtime with host
// bindings. Scripts can read the process environment and every global they
// or earlier commands defined. This is arbitrary code execution by whoever
// types into the console; only construct it on explicit opt-in.
type Unrestricted struct {
	mu sync.Mutex
	vm *goja.Runtime
}

// NewUnrestricted builds the shared runtime and installs host bindings:
// window/self (the global object), console, and process.
func NewUnrestricted(c *console.Console, vars map[string]any) (*Unrestricted, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	if err := bindConsole(vm, c); err != nil {
		return nil, err
	}

	global := vm.GlobalObject()
	for _, alias := range []string{"window", "self"} {
		if err := vm.Set(alias, global); err != nil {
			return nil, fmt.Errorf("bind %s: %w", alias, err)
		}
	}
	if err := vm.Set("process", hostProcess(vm)); err != nil {
		return nil, fmt.Errorf("bind process: %w", err)
	}

	for name, value := range vars {
		if err := vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	return &Unrestricted{vm: vm}, nil
}

func hostProcess(vm *goja.Runtime) *goja.Object {
	env := make(map[string]any)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	args := make([]any, len(os.Args))
	for i, a := range os.Args {
		args[i] = a
	}

	p := vm.NewObject()
	_ = p.Set("env", env)
	_ = p.Set("argv", args)
	_ = p.Set("pid", os.Getpid())
	_ = p.Set("platform", runtime.GOOS)
	_ = p.Set("arch", runtime.GOARCH)
	_ = p.Set("cwd", func() string {
		wd, _ := os.Getwd()
		return wd
	})
	return p
}

// Evaluate runs source in the shared runtime. Calls are serialized.
func (u *Unrestricted) Evaluate(ctx context.Context, source string) (Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return runJS(ctx, u.vm, source)
}
