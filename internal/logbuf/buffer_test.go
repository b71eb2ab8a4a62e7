package logbuf

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFormat(t *testing.T) {
	r := Record{
		Time:    time.Date(2024, 3, 9, 7, 5, 3, 0, time.Local),
		Level:   LevelResult,
		Message: "4",
	}
	assert.Equal(t, "07:05:03 [result] - 4", r.Format())
	assert.Equal(t, r.Format(), r.String())
}

func TestLevelValid(t *testing.T) {
	for _, l := range []Level{LevelLog, LevelInfo, LevelResult, LevelError} {
		assert.True(t, l.Valid(), "level %q", l)
	}
	assert.False(t, Level("warn").Valid())
	assert.False(t, Level("").Valid())
}

func TestBuffer_AppendPreservesOrder(t *testing.T) {
	b := NewBuffer()
	first := New(LevelLog, "RENDERING APP")
	b.Append(first)
	b.Append(New(LevelInfo, "> 2 + 2"), New(LevelResult, "4"))

	got := b.Snapshot()
	require.Len(t, got, 3)

	var msgs []string
	for _, r := range got {
		msgs = append(msgs, r.Message)
	}
	if diff := cmp.Diff([]string{"RENDERING APP", "> 2 + 2", "4"}, msgs); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestBuffer_SnapshotIsACopy(t *testing.T) {
	b := NewBuffer()
	b.Append(New(LevelLog, "a"))

	snap := b.Snapshot()
	snap[0].Message = "mutated"

	assert.Equal(t, "a", b.Snapshot()[0].Message)
}

func TestBuffer_Since(t *testing.T) {
	b := NewBuffer()
	b.Append(New(LevelLog, "a"), New(LevelLog, "b"), New(LevelLog, "c"))

	assert.Len(t, b.Since(1), 2)
	assert.Equal(t, "c", b.Since(2)[0].Message)
	assert.Nil(t, b.Since(3))
	assert.Nil(t, b.Since(10))
	assert.Len(t, b.Since(-1), 3)
}

func TestBuffer_EmptyAppendIsNoop(t *testing.T) {
	b := NewBuffer()
	ch := b.Subscribe()
	b.Append()

	assert.Equal(t, 0, b.Len())
	select {
	case <-ch:
		t.Fatal("empty append must not notify")
	default:
	}
}

func TestBuffer_SubscribeCoalesces(t *testing.T) {
	b := NewBuffer()
	ch := b.Subscribe()

	b.Append(New(LevelLog, "one"))
	b.Append(New(LevelLog, "two"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce into one pending signal")
	default:
	}
	assert.Equal(t, 2, b.Len())
}

func TestBuffer_ConcurrentAppendIsMonotonic(t *testing.T) {
	b := NewBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Append(New(LevelLog, "x"))
			}
		}()
	}

	last := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		n := b.Len()
		require.GreaterOrEqual(t, n, last)
		last = n
		select {
		case <-done:
			assert.Equal(t, 800, b.Len())
			return
		default:
		}
	}
}
