package console

import (
	"bytes"
	"fmt"
	"testing"

	"devconsole/internal/logbuf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsole_LogJoinsArgsAndWritesSink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	buf := logbuf.NewBuffer()
	c := New(buf, zap.New(core))

	c.Log("hello", "world", "42")

	records := buf.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, logbuf.LevelLog, records[0].Level)
	assert.Equal(t, "hello world 42", records[0].Message)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello world 42", entries[0].Message)
	assert.Equal(t, "log", entries[0].ContextMap()["level"])
}

func TestConsole_NoArgsRecordsEmptyMessage(t *testing.T) {
	buf := logbuf.NewBuffer()
	New(buf, nil).Log()

	records := buf.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Message)
}

func TestConsole_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	buf := logbuf.NewBuffer()
	c := New(buf, zap.New(core))

	c.Record(logbuf.LevelInfo, "i")
	c.Record(logbuf.LevelError, "e")

	records := buf.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, logbuf.LevelInfo, records[0].Level)
	assert.Equal(t, logbuf.LevelError, records[1].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestConsole_Echo(t *testing.T) {
	var out bytes.Buffer
	buf := logbuf.NewBuffer()
	c := New(buf, nil)

	c.SetEcho(&out)
	c.Log("hi")
	c.SetEcho(nil)
	c.Log("quiet")

	assert.Equal(t, "hi\n", out.String())
	assert.Equal(t, 2, buf.Len())
}

func TestLineWriter(t *testing.T) {
	buf := logbuf.NewBuffer()
	w := New(buf, nil).Writer()

	fmt.Fprint(w, "first line\nsecond ")
	fmt.Fprint(w, "half\r\nthird")
	assert.Equal(t, 2, buf.Len(), "only complete lines are emitted before Flush")

	w.Flush()
	w.Flush()

	var msgs []string
	for _, r := range buf.Snapshot() {
		msgs = append(msgs, r.Message)
	}
	assert.Equal(t, []string{"first line", "second half", "third"}, msgs)
}
