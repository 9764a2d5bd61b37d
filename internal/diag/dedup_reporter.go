package diag

import "pcrelint/internal/source"

// SiteReporter is a Reporter that can be told which node the following
// reports come from.
type SiteReporter interface {
	Reporter
	Site(span source.Span)
}

// DedupReporter forwards a finding that another site already produced only
// when the current site produces it more often. A pattern constant shared by
// several calls resolves to the same literal span, so every call would
// otherwise repeat its findings. Repeats within one site are kept.
type DedupReporter struct {
	next       Reporter
	emitted    map[dedupKey]int
	current    map[dedupKey]int
	suppressed int
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// NewDedupReporter wraps next. It is not safe for concurrent use; the driver
// creates one per file.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next:    next,
		emitted: make(map[dedupKey]int),
		current: make(map[dedupKey]int),
	}
}

// Site starts counting reports for the node at span. Only the boundary
// matters; span is not part of the key.
func (r *DedupReporter) Site(span source.Span) {
	if r == nil {
		return
	}
	clear(r.current)
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, span: primary, msg: msg}
	r.current[key]++
	if r.current[key] <= r.emitted[key] {
		r.suppressed++
		return
	}
	r.emitted[key] = r.current[key]
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed returns how many duplicates were dropped.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
