package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, falling back to Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanCtxKey struct{}

// ParentSpan returns the ID of the span stored by WithSpan, or 0.
func ParentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(spanCtxKey{}).(uint64); ok {
		return id
	}
	return 0
}

// WithSpan records s as the parent for spans started below ctx.
func WithSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanCtxKey{}, s.ID())
}
