package trace

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// open file spans by ID; heartbeats name them so a stuck file shows up
var inflight sync.Map // uint64 -> string

const heartbeatFiles = 3

func trackOpen(s *Span) {
	if s.ev.Scope == ScopeFile {
		inflight.Store(s.ev.SpanID, s.ev.Name)
	}
}

func trackClosed(s *Span) {
	if s.ev.Scope == ScopeFile {
		inflight.Delete(s.ev.SpanID)
	}
}

// inflightFiles lists open file spans, oldest first, at most limit.
func inflightFiles(limit int) (names []string, total int) {
	type entry struct {
		id   uint64
		name string
	}
	var open []entry
	inflight.Range(func(k, v any) bool {
		open = append(open, entry{k.(uint64), v.(string)})
		return true
	})
	sort.Slice(open, func(i, j int) bool { return open[i].id < open[j].id })
	for _, e := range open[:min(limit, len(open))] {
		names = append(names, e.name)
	}
	return names, len(open)
}

// Heartbeat periodically emits heartbeat events listing the files still
// being analyzed.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// StartHeartbeat starts the heartbeat goroutine; nil when disabled.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-ticker.C:
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    goroutineID(),
				Name:   "heartbeat",
				Detail: heartbeatDetail(beat),
			})
		case <-h.stop:
			return
		}
	}
}

func heartbeatDetail(beat int) string {
	names, total := inflightFiles(heartbeatFiles)
	if total == 0 {
		return fmt.Sprintf("#%d idle", beat)
	}
	detail := fmt.Sprintf("#%d in flight: %s", beat, strings.Join(names, ", "))
	if total > len(names) {
		detail += fmt.Sprintf(" (+%d)", total-len(names))
	}
	return detail
}

// Stop stops the heartbeat goroutine and waits for it. Safe on nil.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
