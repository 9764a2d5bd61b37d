package trace

import "errors"

// MultiTracer sends every event to each child tracer.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer creates a MultiTracer at level over tracers.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

// Emit gives each child its own copy; children assign Seq.
func (t *MultiTracer) Emit(ev *Event) {
	for _, child := range t.tracers {
		cp := *ev
		child.Emit(&cp)
	}
}

// Flush flushes every child and joins their errors.
func (t *MultiTracer) Flush() error {
	return t.each(Tracer.Flush)
}

// Close closes every child and joins their errors.
func (t *MultiTracer) Close() error {
	return t.each(Tracer.Close)
}

func (t *MultiTracer) each(fn func(Tracer) error) error {
	var errs []error
	for _, child := range t.tracers {
		errs = append(errs, fn(child))
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// Ring returns the first ring tracer among the children.
func (t *MultiTracer) Ring() (*RingTracer, bool) {
	for _, child := range t.tracers {
		if r, ok := child.(*RingTracer); ok {
			return r, true
		}
	}
	return nil, false
}
