// Package trace provides a tracing subsystem for pcrelint runs.
//
// It records pipeline phases (load, parse, index, analyze) and per-file work
// to help diagnose slow or stuck runs on large PHP trees.
//
// # Usage
//
//	pcrelint check --trace=- --trace-level=phase src/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer kept for dumps after a failure
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only error points (recovered panics)
//   - LevelPhase: driver and phase boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything including node level
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
