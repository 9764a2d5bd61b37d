package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events in memory for a dump after a panic.
type RingTracer struct {
	mu      sync.Mutex
	buf     []Event
	written uint64 // events stored so far; buf[written%len] is next
	level   Level
}

// NewRingTracer creates a RingTracer holding capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !accepts(t.level, ev) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.written%uint64(len(t.buf))] = stored
	t.written++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := uint64(len(t.buf))
	if t.written <= size {
		return append([]Event(nil), t.buf[:t.written]...)
	}
	head := t.written % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[head:]...)
	return append(out, t.buf[:head]...)
}

// Dump writes the stored events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
