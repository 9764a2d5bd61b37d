// Package inspect runs the inspections over a parsed PHP file.
//
// Walk makes a single pass over the tree and hands calls, includes and
// array accesses to every registered Inspector. Inspectors resolve what they
// need through a sema.Resolver and report to a diag.Reporter; they keep no
// state between nodes.
package inspect

import (
	"context"

	"pcrelint/internal/ast"
	"pcrelint/internal/trace"
)

// Inspector receives the node kinds inspections care about. Returning an
// error stops the walk; inspectors only do so when resolution was cancelled.
type Inspector interface {
	VisitCall(ctx context.Context, call *ast.Call) error
	VisitInclude(ctx context.Context, inc *ast.Include) error
	VisitArrayAccess(ctx context.Context, access *ast.ArrayAccess) error
}

// Base implements Inspector with no-op handlers; embed it and override
// what is needed.
type Base struct{}

func (Base) VisitCall(context.Context, *ast.Call) error               { return nil }
func (Base) VisitInclude(context.Context, *ast.Include) error         { return nil }
func (Base) VisitArrayAccess(context.Context, *ast.ArrayAccess) error { return nil }

// Walk visits file once, in source order, dispatching each node to every
// inspector.
func Walk(ctx context.Context, file *ast.File, inspectors ...Inspector) error {
	if file == nil || len(inspectors) == 0 {
		return nil
	}
	traced := trace.FromContext(ctx).Level().ShouldEmit(trace.ScopeNode)
	var err error
	ast.Inspect(file, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		if traced {
			switch n.(type) {
			case *ast.Call, *ast.Include, *ast.ArrayAccess:
				trace.Node(ctx, "inspect", ast.Describe(n))
			}
		}
		for _, in := range inspectors {
			switch n := n.(type) {
			case *ast.Call:
				err = in.VisitCall(ctx, n)
			case *ast.Include:
				err = in.VisitInclude(ctx, n)
			case *ast.ArrayAccess:
				err = in.VisitArrayAccess(ctx, n)
			default:
				return true
			}
			if err != nil {
				return false
			}
		}
		return true
	})
	return err
}
