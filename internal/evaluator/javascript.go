package evaluator

import (
	"context"
	"errors"
	"fmt"

	"devconsole/internal/console"
	"devconsole/internal/logbuf"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
)

// consoleMethods maps script console methods to record levels.
var consoleMethods = map[string]logbuf.Level{
	"log":   logbuf.LevelLog,
	"debug": logbuf.LevelLog,
	"info":  logbuf.LevelInfo,
	"warn":  logbuf.LevelError,
	"error": logbuf.LevelError,
}

// bindConsole exposes c to the runtime as the global "console" object.
func bindConsole(vm *goja.Runtime, c *console.Console) error {
	if c == nil {
		return nil
	}
	obj := vm.NewObject()
	for name, level := range consoleMethods {
		level := level
		fn := func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				if _, ok := arg.(*goja.Symbol); ok {
					panic(vm.NewTypeError("Cannot convert a Symbol value to a string"))
				}
				args[i] = joinString(arg)
			}
			c.Record(level, args...)
			return goja.Undefined()
		}
		if err := obj.Set(name, fn); err != nil {
			return fmt.Errorf("bind console.%s: %w", name, err)
		}
	}
	return vm.Set("console", obj)
}

// joinString converts a value the way Array.prototype.join does:
// undefined and null become the empty string. Symbols are rejected by the
// caller, since join throws on them.
func joinString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// display coerces a value the way String(value) does. Symbols go through
// the runtime's String built-in, which yields "Symbol(desc)".
func display(vm *goja.Runtime, v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	}
	if _, ok := v.(*goja.Symbol); ok {
		if str, ok := goja.AssertFunction(vm.Get("String")); ok {
			if s, err := str(goja.Undefined(), v); err == nil {
				return s.String()
			}
		}
	}
	return v.String()
}

// compileJS parses src separately so syntax errors keep the parser's own
// message instead of the runtime's wrapped SyntaxError text.
func compileJS(src string) (*goja.Program, error) {
	ast, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		var list parser.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			return nil, &EvaluationError{Kind: "SyntaxError", Description: list[0].Message, Err: err}
		}
		return nil, &EvaluationError{Kind: "SyntaxError", Description: err.Error(), Err: err}
	}
	return goja.CompileAST(ast, false)
}

// runJS evaluates src on vm and converts the outcome. Coercion to the display
// form runs script code (toString), so it stays inside the interruptible window.
func runJS(ctx context.Context, vm *goja.Runtime, src string) (res Result, err error) {
	if cerr := ctx.Err(); cerr != nil {
		return Result{}, interrupted(cerr)
	}

	if ctx.Done() != nil {
		stop := make(chan struct{})
		watcherDone := make(chan struct{})
		go func() {
			defer close(watcherDone)
			select {
			case <-ctx.Done():
				vm.Interrupt(ctx.Err())
			case <-stop:
			}
		}()
		defer func() {
			close(stop)
			<-watcherDone
			vm.ClearInterrupt()
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, describeJS(vm, recoveredError(r))
		}
	}()

	prog, cerr := compileJS(src)
	if cerr != nil {
		return Result{}, describeJS(vm, cerr)
	}

	v, rerr := vm.RunProgram(prog)
	if rerr != nil {
		return Result{}, describeJS(vm, rerr)
	}

	out := Result{}
	if ex := vm.Try(func() { out.Display = display(vm, v) }); ex != nil {
		return Result{}, describeJS(vm, ex)
	}
	if v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		out.Value = v.Export()
	}
	return out, nil
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// describeJS maps a goja failure to an EvaluationError. Thrown objects
// contribute their name and message; other thrown values their string form.
// Unlike reading e.message, `throw 5` is described as "5", not "undefined".
func describeJS(vm *goja.Runtime, err error) *EvaluationError {
	var ee *EvaluationError
	if errors.As(err, &ee) {
		return ee
	}

	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause, ok := ie.Value().(error); ok {
			return interrupted(cause)
		}
		return interrupted(context.DeadlineExceeded)
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		ee = &EvaluationError{Kind: "Error", Description: ex.Error(), Err: err}
		val := ex.Value()
		if obj, ok := val.(*goja.Object); ok {
			if name := obj.Get("name"); name != nil && !goja.IsUndefined(name) {
				ee.Kind = name.String()
			}
			if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
				ee.Description = msg.String()
			} else {
				ee.Description = safeString(val)
			}
		} else if val != nil {
			ee.Description = display(vm, val)
		}
		return ee
	}

	var se *goja.CompilerSyntaxError
	if errors.As(err, &se) {
		return &EvaluationError{Kind: "SyntaxError", Description: se.Message, Err: err}
	}

	return AsEvaluationError(err)
}

// safeString stringifies a thrown object whose toString may itself throw.
func safeString(v goja.Value) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = "[object]"
		}
	}()
	return v.String()
}
