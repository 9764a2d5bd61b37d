// Package testkit holds helpers shared by package tests: span invariants
// for parsed trees and golden file comparison.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pcrelint/internal/ast"
	"pcrelint/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span starts at 0, ends at the content length and names sf
// 2) every node span is well formed and points into sf
// 3) every node span lies inside file.Span
// 4) every statement of the file lies inside the union of the file's spans
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.Start != 0 || f.Span.End != lenContent {
		return fmt.Errorf("file span %v does not cover content of %d bytes", f.Span, lenContent)
	}

	var bad error
	ast.Inspect(f, func(n ast.Node) bool {
		if bad != nil {
			return false
		}
		sp := ast.SpanOf(n)
		switch {
		case sp.End < sp.Start:
			bad = fmt.Errorf("%s: inverted span %v", ast.Describe(n), sp)
		case sp.File != sf.ID:
			bad = fmt.Errorf("%s: span file mismatch: got=%d want=%d", ast.Describe(n), sp.File, sf.ID)
		case !f.Span.Contains(sp):
			bad = fmt.Errorf("%s: span %v is outside file span %v", ast.Describe(n), sp, f.Span)
		}
		return true
	})
	if bad != nil {
		return bad
	}

	var union source.Span
	for i, st := range f.Stmts {
		sp := ast.SpanOf(st)
		if i == 0 {
			union = sp
		} else {
			union = union.Cover(sp)
		}
	}
	if len(f.Stmts) > 0 && !f.Span.Contains(union) {
		return fmt.Errorf("file span %v does not cover union of statements %v", f.Span, union)
	}
	return nil
}
