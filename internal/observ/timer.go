// Package observ measures where a check run spends its time: the driver
// phases and the slowest analyzed files.
package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultSlowest is how many files a Timer keeps when none is given.
const DefaultSlowest = 5

type phase struct {
	name string
	dur  time.Duration
	note string
}

type fileTime struct {
	path string
	dur  time.Duration
}

// Timer records phase durations and the slowest files of one run. Phases
// are driven by a single goroutine; File is safe for concurrent use.
type Timer struct {
	phases []phase

	mu      sync.Mutex
	keep    int
	slowest []fileTime // sorted, longest first
}

// NewTimer creates a Timer that keeps the keep slowest files.
func NewTimer(keep int) *Timer {
	if keep <= 0 {
		keep = DefaultSlowest
	}
	return &Timer{keep: keep}
}

// Phase starts timing name; calling the returned func ends it with note.
// Phases are reported in start order.
func (t *Timer) Phase(name string) func(note string) {
	t.phases = append(t.phases, phase{name: name})
	idx := len(t.phases) - 1
	start := time.Now()
	return func(note string) {
		t.phases[idx].dur = time.Since(start)
		t.phases[idx].note = note
	}
}

// File records how long path took to analyze.
func (t *Timer) File(path string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := func(s fileTime) bool { return s.dur < d || (s.dur == d && s.path > path) }
	if len(t.slowest) == t.keep && !before(t.slowest[len(t.slowest)-1]) {
		return
	}
	i := sort.Search(len(t.slowest), func(i int) bool { return before(t.slowest[i]) })
	t.slowest = append(t.slowest, fileTime{})
	copy(t.slowest[i+1:], t.slowest[i:])
	t.slowest[i] = fileTime{path: path, dur: d}
	if len(t.slowest) > t.keep {
		t.slowest = t.slowest[:t.keep]
	}
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// FileReport is one entry of the slowest-files list.
type FileReport struct {
	Path       string  `json:"path"`
	DurationMS float64 `json:"duration_ms"`
}

// Report is the measured run. TotalMS sums the phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Slowest []FileReport  `json:"slowest,omitempty"`
}

// Report snapshots the timer.
func (t *Timer) Report() Report {
	var report Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		report.Phases = append(report.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	report.TotalMS = millis(total)

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range t.slowest {
		report.Slowest = append(report.Slowest, FileReport{Path: f.path, DurationMS: millis(f.dur)})
	}
	return report
}

// Summary renders the report as an aligned text table.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	if len(report.Slowest) > 0 {
		b.WriteString("slowest files:\n")
		for _, f := range report.Slowest {
			fmt.Fprintf(&b, "  %7.2f ms  %s\n", f.DurationMS, f.Path)
		}
	}
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
