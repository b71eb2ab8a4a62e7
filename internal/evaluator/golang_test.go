package evaluator

import (
	"context"
	"strings"
	"testing"
	"time"

	"devconsole/internal/console"
	"devconsole/internal/logbuf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoSandboxed_Expressions(t *testing.T) {
	ev := NewGoSandboxed(nil)
	ctx := context.Background()

	res, err := ev.Evaluate(ctx, "2 + 2")
	require.NoError(t, err)
	assert.Equal(t, "4", res.Display)

	res, err = ev.Evaluate(ctx, `strings.ToUpper("hi")`)
	require.NoError(t, err)
	assert.Equal(t, "HI", res.Display)
}

func TestGoSandboxed_HostIsUnreachable(t *testing.T) {
	ev := NewGoSandboxed(nil)
	ctx := context.Background()

	_, err := ev.Evaluate(ctx, "window")
	ee := requireEvalError(t, err)
	assert.Equal(t, KindCompile, ee.Kind)

	_, err = ev.Evaluate(ctx, `os.Getenv("HOME")`)
	requireEvalError(t, err)
}

func TestGoSandboxed_Whitelist(t *testing.T) {
	assert.True(t, sandboxPackages["strings"])
	assert.False(t, sandboxPackages["os"])
	assert.False(t, sandboxPackages["os/exec"])
}

func TestFilterSymbols(t *testing.T) {
	syms := filterSymbols(map[string]bool{"strings": true, "encoding/json": true})
	_, hasStrings := syms["strings/strings"]
	_, hasJSON := syms["encoding/json/json"]
	assert.True(t, hasStrings)
	assert.True(t, hasJSON)
	for key := range syms {
		assert.False(t, strings.HasPrefix(key, "os/"), "unexpected %s", key)
	}
}

func TestGoSandboxed_PrintGoesToConsole(t *testing.T) {
	buf := logbuf.NewBuffer()
	ev := NewGoSandboxed(console.New(buf, nil))

	_, err := ev.Evaluate(context.Background(), `fmt.Println("hi from go")`)
	require.NoError(t, err)

	records := buf.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "hi from go", records[0].Message)
}

func TestGoUnrestricted_Persistence(t *testing.T) {
	ev, err := NewGoUnrestricted(nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ev.Evaluate(ctx, "x := 41")
	require.NoError(t, err)

	res, err := ev.Evaluate(ctx, "x + 1")
	require.NoError(t, err)
	assert.Equal(t, "42", res.Display)
}

func TestGoUnrestricted_TimeoutReplacesInterpreter(t *testing.T) {
	ev, err := NewGoUnrestricted(nil)
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), "x := 41")
	require.NoError(t, err)
	before := ev.i

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = ev.Evaluate(ctx, "for { time.Sleep(time.Millisecond) }")
	ee := requireEvalError(t, err)
	assert.Equal(t, KindTimeout, ee.Kind)
	assert.NotSame(t, before, ev.i)

	// Declarations made before the timeout are gone with the old interpreter.
	_, err = ev.Evaluate(context.Background(), "x")
	assert.Error(t, err)

	res, err := ev.Evaluate(context.Background(), "2 + 3")
	require.NoError(t, err)
	assert.Equal(t, "5", res.Display)
}

func TestGoUnrestricted_CancelledBeforeStartKeepsState(t *testing.T) {
	ev, err := NewGoUnrestricted(nil)
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), "y := 7")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ev.Evaluate(ctx, "y")
	assert.Equal(t, KindCancelled, requireEvalError(t, err).Kind)

	res, err := ev.Evaluate(context.Background(), "y")
	require.NoError(t, err)
	assert.Equal(t, "7", res.Display)
}
