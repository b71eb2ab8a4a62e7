// Package logbuf holds the console's log records and the append-only buffer
// that every writer (console capability, command pipeline) shares with the UI.
package logbuf

import (
	"fmt"
	"time"
)

// Level classifies a record for display.
type Level string

const (
	LevelLog    Level = "log"    // console.log and friends
	LevelInfo   Level = "info"   // command echo on success, console.info
	LevelResult Level = "result" // evaluated value
	LevelError  Level = "error"  // command echo and description on failure
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLog, LevelInfo, LevelResult, LevelError:
		return true
	}
	return false
}

// Record is one captured console or command-result entry.
// Records are values; nothing in this module mutates one after creation.
type Record struct {
	Time    time.Time
	Level   Level
	Message string
}

// New creates a record stamped with the current time.
func New(level Level, message string) Record {
	return Record{Time: time.Now(), Level: level, Message: message}
}

// Format renders the record as a single display line: "HH:MM:SS [level] - message".
func (r Record) Format() string {
	return fmt.Sprintf("%s [%s] - %s", r.Time.Format("15:04:05"), r.Level, r.Message)
}

func (r Record) String() string { return r.Format() }
