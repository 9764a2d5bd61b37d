package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

// NewStreamTracer creates a new StreamTracer.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

// Emit writes an event to the output. Write errors are ignored so tracing
// never fails a run.
func (t *StreamTracer) Emit(ev *Event) {
	if !accepts(t.level, ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.w.Write(data) //nolint:errcheck
}

// Flush calls Flush on the writer when it has one.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
