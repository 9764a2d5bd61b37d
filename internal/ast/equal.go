package ast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pcrelint/internal/trace"
)

// Equal reports whether two expressions are structurally equivalent.
//
// A panic inside the comparison is recovered, recorded as a trace error
// point and reported as "not equal". Cancellation of ctx is the only error
// returned; callers must propagate it.
func Equal(ctx context.Context, a, b Expr) (equal bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			trace.Error(trace.FromContext(ctx), "ast.equal", fmt.Sprintf("recovered: %v", r))
			equal, err = false, nil
		}
	}()
	c := comparer{ctx: ctx}
	equal = c.expr(a, b)
	if c.err != nil {
		return false, c.err
	}
	return equal, nil
}

type comparer struct {
	ctx context.Context
	err error
}

func (c *comparer) expr(a, b Expr) bool {
	if c.err != nil {
		return false
	}
	if err := c.ctx.Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.err = err
		}
		return false
	}
	// parentheses never change the value
	a, b = Unparen(a), Unparen(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *StringLit:
		y, ok := b.(*StringLit)
		if !ok {
			return false
		}
		if x.Raw == y.Raw {
			return true
		}
		return x.Value == y.Value && !x.HasInterpolation() && !y.HasInterpolation()
	case *NumberLit:
		y, ok := b.(*NumberLit)
		return ok && x.Raw == y.Raw
	case *Variable:
		y, ok := b.(*Variable)
		if !ok {
			return false
		}
		if x.Name != "" && y.Name != "" {
			return x.Name == y.Name
		}
		return x.Name == y.Name && c.expr(x.Dynamic, y.Dynamic)
	case *ConstFetch:
		y, ok := b.(*ConstFetch)
		if !ok {
			return false
		}
		if isCaseless(x.Name) {
			return strings.EqualFold(x.Name, y.Name)
		}
		return x.Name == y.Name && x.FullyQualified == y.FullyQualified && x.Namespace == y.Namespace
	case *ClassConstFetch:
		y, ok := b.(*ClassConstFetch)
		return ok && strings.EqualFold(x.ClassName, y.ClassName) && x.Const == y.Const && c.expr(x.Class, y.Class)
	case *StaticPropertyFetch:
		y, ok := b.(*StaticPropertyFetch)
		return ok && strings.EqualFold(x.ClassName, y.ClassName) && x.Name == y.Name && c.expr(x.Class, y.Class)
	case *Call:
		y, ok := b.(*Call)
		return ok && strings.EqualFold(x.Name, y.Name) && c.expr(x.Callee, y.Callee) && c.args(x.Args, y.Args)
	case *MethodCall:
		y, ok := b.(*MethodCall)
		return ok && strings.EqualFold(x.Method, y.Method) && x.NullSafe == y.NullSafe &&
			c.expr(x.Object, y.Object) && c.args(x.Args, y.Args)
	case *StaticCall:
		y, ok := b.(*StaticCall)
		return ok && strings.EqualFold(x.ClassName, y.ClassName) && strings.EqualFold(x.Method, y.Method) &&
			c.expr(x.Class, y.Class) && c.args(x.Args, y.Args)
	case *New:
		y, ok := b.(*New)
		return ok && x.Anon == nil && y.Anon == nil && strings.EqualFold(x.ClassName, y.ClassName) &&
			c.expr(x.Class, y.Class) && c.args(x.Args, y.Args)
	case *ArrayLit:
		y, ok := b.(*ArrayLit)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			xi, yi := x.Items[i], y.Items[i]
			if xi.ByRef != yi.ByRef || xi.Spread != yi.Spread || !c.expr(xi.Key, yi.Key) || !c.expr(xi.Value, yi.Value) {
				return false
			}
		}
		return true
	case *ArrayAccess:
		y, ok := b.(*ArrayAccess)
		return ok && c.expr(x.Container, y.Container) && c.expr(x.Index, y.Index)
	case *PropertyFetch:
		y, ok := b.(*PropertyFetch)
		return ok && x.Name == y.Name && x.NullSafe == y.NullSafe && c.expr(x.Object, y.Object)
	case *Include:
		y, ok := b.(*Include)
		return ok && x.Kind == y.Kind && c.expr(x.Arg, y.Arg)
	case *Assign:
		y, ok := b.(*Assign)
		return ok && x.Op == y.Op && x.ByRef == y.ByRef && c.expr(x.Target, y.Target) && c.expr(x.Value, y.Value)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && c.expr(x.Left, y.Left) && c.expr(x.Right, y.Right)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && x.Postfix == y.Postfix && c.expr(x.X, y.X)
	case *Cast:
		y, ok := b.(*Cast)
		return ok && x.Type == y.Type && c.expr(x.X, y.X)
	case *Ternary:
		y, ok := b.(*Ternary)
		return ok && c.expr(x.Cond, y.Cond) && c.expr(x.Then, y.Then) && c.expr(x.Else, y.Else)
	case *Other:
		y, ok := b.(*Other)
		if !ok || x.Kind != y.Kind || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !c.expr(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	}
	// closures and unparsed input are never considered equal
	return false
}

func (c *comparer) args(a, b []Arg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Spread != b[i].Spread || !c.expr(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func isCaseless(name string) bool {
	switch strings.ToLower(name) {
	case "true", "false", "null":
		return true
	}
	return false
}
