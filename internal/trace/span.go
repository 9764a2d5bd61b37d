package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span ID; IDs start at 1.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID reads N from the "goroutine N [running]:" stack header. Worker
// goroutines of a parallel check are told apart by it.
func goroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header, ok := bytes.CutPrefix(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(header, ' '); end >= 0 {
		header = header[:end]
	}
	id, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is one traced operation. A disabled span is safe to use and does
// nothing.
type Span struct {
	t       Tracer
	ev      Event // begin event; End reuses its identity fields
	started time.Time
	extra   map[string]string
}

var disabled = &Span{}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		t: t,
		ev: Event{
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
		started: time.Now(),
	}
	begin := s.ev
	begin.Time = s.started
	t.Emit(&begin)
	trackOpen(s)
	return s
}

// Start opens a span with the tracer and parent carried by ctx and returns a
// context whose spans nest under it.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, ParentSpan(ctx))
	if s == disabled {
		return ctx, s
	}
	return WithSpan(ctx, s), s
}

// End emits the end event with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	trackClosed(s)
	dur := time.Since(s.started)
	end := s.ev
	end.Time = time.Now()
	end.Kind = KindSpanEnd
	end.Detail = detail
	end.Extra = s.extra
	s.t.Emit(&end)
	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, GID: goroutineID(), Name: name, Detail: detail})
}

// Node emits a node-scope point under the span carried by ctx. It is meant
// for per-node work and costs a level check when debug tracing is off.
func Node(ctx context.Context, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(ScopeNode) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    ScopeNode,
		ParentID: ParentSpan(ctx),
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}

// Error emits a recovered failure; every level but off keeps it.
func Error(t Tracer, name, detail string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindError, Scope: ScopeDriver, GID: goroutineID(), Name: name, Detail: detail})
}
