package sema

import (
	"context"

	"pcrelint/internal/ast"
	"pcrelint/internal/source"
)

// ResolveAsStringLiteral resolves e to the string literal it always
// evaluates to. It follows parentheses, global and class constants through
// the index, and local variables whose every assignment in scope resolves to
// structurally equal literals. The only error is ctx cancellation.
func (r *Resolver) ResolveAsStringLiteral(ctx context.Context, e ast.Expr) (Literal, bool, error) {
	return r.literal(ctx, e, r.file.ID, 0)
}

func (r *Resolver) literal(ctx context.Context, e ast.Expr, file source.FileID, depth int) (Literal, bool, error) {
	if depth > maxDepth {
		return Literal{}, false, nil
	}
	switch e := ast.Unparen(e).(type) {
	case *ast.StringLit:
		return Literal{Node: e, File: file}, true, nil
	case *ast.ConstFetch:
		if r.index == nil {
			return Literal{}, false, nil
		}
		c, ok := r.index.LookupConst(e)
		if !ok {
			return Literal{}, false, nil
		}
		return r.literal(ctx, c.Value, c.File, depth+1)
	case *ast.ClassConstFetch:
		if r.index == nil || e.Class != nil || e.ClassName == "" || e.ClassName == "static" {
			return Literal{}, false, nil
		}
		item, owner, ok := r.index.ClassConst(e.ClassName, e.Const)
		if !ok {
			return Literal{}, false, nil
		}
		return r.literal(ctx, item.Value, owner.File, depth+1)
	case *ast.Variable:
		if file != r.file.ID {
			return Literal{}, false, nil
		}
		return r.variableLiteral(ctx, e, depth)
	}
	return Literal{}, false, nil
}

// variableLiteral requires every write of the variable to be a plain
// assignment of the same literal.
func (r *Resolver) variableLiteral(ctx context.Context, v *ast.Variable, depth int) (Literal, bool, error) {
	if v.Name == "" || v.Name == "this" {
		return Literal{}, false, nil
	}
	sc := r.scopeOf(v).owner(v.Name)
	if _, ok := sc.params[v.Name]; ok {
		return Literal{}, false, nil
	}
	values := sc.assigns[v.Name]
	if len(values) == 0 {
		return Literal{}, false, nil
	}
	var first Literal
	for i, value := range values {
		if value == nil {
			return Literal{}, false, nil
		}
		if err := ctx.Err(); err != nil {
			return Literal{}, false, err
		}
		lit, ok, err := r.literal(ctx, value, r.file.ID, depth+1)
		if err != nil || !ok {
			return Literal{}, false, err
		}
		if i == 0 {
			first = lit
			continue
		}
		if lit.File != first.File {
			return Literal{}, false, nil
		}
		same, err := ast.Equal(ctx, first.Node, lit.Node)
		if err != nil || !same {
			return Literal{}, false, err
		}
	}
	return first, true, nil
}
