package logbuf

import "sync"

// Buffer is an ordered, append-only sequence of records.
// Insertion order is display order. Records are never removed or reordered.
type Buffer struct {
	mu      sync.RWMutex
	records []Record
	subs    []chan struct{}
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds records to the end of the buffer and wakes subscribers.
func (b *Buffer) Append(records ...Record) {
	if len(records) == 0 {
		return
	}

	b.mu.Lock()
	b.records = append(b.records, records...)
	subs := b.subs
	b.mu.Unlock()

	for _, ch := range subs {
		// Notifications coalesce: a pending signal already tells the reader to look.
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of records appended so far.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Snapshot returns a copy of every record in display order.
func (b *Buffer) Snapshot() []Record {
	return b.Since(0)
}

// Since returns a copy of the records appended at or after index n.
func (b *Buffer) Since(n int) []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n >= len(b.records) {
		return nil
	}
	out := make([]Record, len(b.records)-n)
	copy(out, b.records[n:])
	return out
}

// Subscribe returns a channel that receives a signal after each Append.
// Signals are coalesced, so readers should call Since with their last
// known length rather than count signals.
func (b *Buffer) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}
