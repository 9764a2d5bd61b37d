package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
	KindError     // recovered failure, emitted at every level but off
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole run
	ScopePass                    // load, parse, index, analyze
	ScopeFile                    // per-file processing
	ScopeNode                    // call sites and tree nodes
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global sequence number (monotonic)
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 if root
	GID      uint64 // goroutine ID
	Name     string // e.g. "parse", "file:src/a.php"
	Detail   string
	Extra    map[string]string
}

// accepts reports whether a tracer at level l keeps ev.
func accepts(l Level, ev *Event) bool {
	switch ev.Kind {
	case KindError:
		return l > LevelOff
	case KindHeartbeat:
		return l > LevelError
	}
	return l.ShouldEmit(ev.Scope)
}
