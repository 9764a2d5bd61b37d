package sema

import (
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/lexer"
	"pcrelint/internal/token"
)

// ResolveType returns the types e may evaluate to. The set holds every type
// that could be determined; ok is false when some part of e stayed unknown,
// in which case the set is incomplete (possibly empty).
func (r *Resolver) ResolveType(e ast.Expr) (TypeSet, bool) {
	t := &typer{r: r, visiting: make(map[string]bool)}
	set := NewTypeSet()
	ok := t.expr(e, set, 0)
	return set, ok
}

type typer struct {
	r        *Resolver
	visiting map[string]bool // variables on the current resolution path
}

func (t *typer) expr(e ast.Expr, out TypeSet, depth int) bool {
	if depth > maxDepth {
		return false
	}
	switch e := ast.Unparen(e).(type) {
	case nil:
		return false
	case *ast.StringLit:
		out.Add("string")
	case *ast.NumberLit:
		if e.Float {
			out.Add("float")
		} else {
			out.Add("int")
		}
	case *ast.ConstFetch:
		return t.constFetch(e, out, depth)
	case *ast.ArrayLit:
		if e.List {
			return false
		}
		out.Add("array")
	case *ast.New:
		if e.Anon != nil {
			out.Add("object")
			return true
		}
		if e.ClassName == "" || e.Class != nil {
			return false
		}
		class := t.className(e, e.ClassName)
		if class == "" {
			return false
		}
		out.Add(class)
	case *ast.Closure:
		out.Add(`\Closure`)
	case *ast.Cast:
		typ := castType(e.Type)
		if typ == "" {
			return false
		}
		out.Add(typ)
	case *ast.Binary:
		return t.binary(e, out, depth)
	case *ast.Unary:
		return t.unary(e, out, depth)
	case *ast.Ternary:
		var ok bool
		if e.Then == nil {
			ok = t.expr(e.Cond, out, depth+1)
		} else {
			ok = t.expr(e.Then, out, depth+1)
		}
		return t.expr(e.Else, out, depth+1) && ok
	case *ast.Assign:
		if e.Op == token.Assign {
			return t.expr(e.Value, out, depth+1)
		}
		return false
	case *ast.Variable:
		return t.variable(e, out, depth)
	case *ast.Call:
		return t.call(e, out)
	case *ast.MethodCall:
		return t.methodCall(e, out, depth)
	case *ast.StaticCall:
		if e.Class != nil || e.ClassName == "" {
			return false
		}
		return t.method(t.className(e, e.ClassName), e.Method, out)
	case *ast.PropertyFetch:
		return t.propertyFetch(e, out, depth)
	case *ast.StaticPropertyFetch:
		if e.Class != nil || e.ClassName == "" {
			return false
		}
		return t.property(t.className(e, e.ClassName), e.Name, out)
	case *ast.ClassConstFetch:
		return t.classConst(e, out, depth)
	case *ast.ArrayAccess:
		return t.arrayAccess(e, out, depth)
	case *ast.Include:
		out.Add("mixed")
	case *ast.Other:
		switch e.Kind {
		case "isset", "empty":
			out.Add("bool")
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// className resolves "self" and "static" against the enclosing class.
func (t *typer) className(n ast.Node, name string) string {
	switch strings.ToLower(name) {
	case "self", "static":
		if class := t.r.scopeOf(n).class; class != "" {
			return class
		}
		return ""
	}
	return "\\" + strings.TrimPrefix(name, "\\")
}

func castType(text string) string {
	switch lexer.CastType(text) {
	case "int", "integer":
		return "int"
	case "float", "double", "real":
		return "float"
	case "string", "binary":
		return "string"
	case "bool", "boolean":
		return "bool"
	case "array":
		return "array"
	case "object":
		return "object"
	case "unset":
		return "null"
	}
	return ""
}

func (t *typer) constFetch(e *ast.ConstFetch, out TypeSet, depth int) bool {
	switch strings.ToLower(e.Name) {
	case "true", "false":
		out.Add("bool")
		return true
	case "null":
		out.Add("null")
		return true
	case "php_eol", "php_os", "php_version", "directory_separator", "path_separator", "php_os_family":
		out.Add("string")
		return true
	case "php_int_max", "php_int_min", "php_int_size", "e_all", "e_error", "e_warning", "e_notice",
		"e_strict", "e_deprecated", "php_major_version", "php_minor_version":
		out.Add("int")
		return true
	case "php_float_epsilon", "php_float_max", "php_float_min", "m_pi", "nan", "inf":
		out.Add("float")
		return true
	}
	if t.r.index == nil {
		return false
	}
	c, ok := t.r.index.LookupConst(e)
	if !ok {
		return false
	}
	return t.expr(c.Value, out, depth+1)
}

func (t *typer) binary(e *ast.Binary, out TypeSet, depth int) bool {
	switch e.Op {
	case token.Dot:
		out.Add("string")
	case token.Plus, token.Minus, token.Star, token.Pow:
		left, right := NewTypeSet(), NewTypeSet()
		lok := t.expr(e.Left, left, depth+1)
		rok := t.expr(e.Right, right, depth+1)
		if lok && rok && !left.Has("float") && !right.Has("float") &&
			left.Has("int") && right.Has("int") && left.Len() == 1 && right.Len() == 1 {
			out.Add("int")
			return true
		}
		if e.Op == token.Plus && left.Has("array") && right.Has("array") {
			out.Add("array")
			return true
		}
		out.Add("int", "float")
	case token.Slash:
		out.Add("int", "float")
	case token.Percent, token.Amp, token.Pipe, token.Caret, token.Shl, token.Shr:
		out.Add("int")
	case token.Eq, token.NotEq, token.Identical, token.NotIdentical, token.Lt, token.Gt, token.LtEq, token.GtEq,
		token.AndAnd, token.OrOr, token.KwAnd, token.KwOr, token.KwXor, token.KwInstanceof:
		out.Add("bool")
	case token.Spaceship:
		out.Add("int")
	case token.Coalesce:
		left := NewTypeSet()
		lok := t.expr(e.Left, left, depth+1)
		left.Remove("null")
		out.Union(left)
		return t.expr(e.Right, out, depth+1) && lok
	default:
		return false
	}
	return true
}

func (t *typer) unary(e *ast.Unary, out TypeSet, depth int) bool {
	switch e.Op {
	case token.Bang:
		out.Add("bool")
	case token.Tilde:
		out.Add("int")
	case token.Minus, token.Plus, token.Inc, token.Dec:
		inner := NewTypeSet()
		if t.expr(e.X, inner, depth+1) && inner.Len() == 1 && (inner.Has("int") || inner.Has("float")) {
			out.Union(inner)
			return true
		}
		out.Add("int", "float")
	case token.At, token.Amp:
		return t.expr(e.X, out, depth+1)
	case token.KwClone:
		return t.expr(e.X, out, depth+1)
	case token.KwPrint:
		out.Add("int")
	default:
		return false
	}
	return true
}

// variable unions declared types (parameter hints, docblocks) with the
// types of every assignment in the owning scope. A declared type covers
// writes whose value is unknown.
func (t *typer) variable(v *ast.Variable, out TypeSet, depth int) bool {
	if v.Name == "" {
		return false
	}
	sc := t.r.scopeOf(v)
	if v.Name == "this" {
		if sc.class == "" {
			return false
		}
		out.Add(sc.class)
		return true
	}
	sc = sc.owner(v.Name)
	if t.visiting[v.Name] {
		return false
	}
	t.visiting[v.Name] = true
	defer delete(t.visiting, v.Name)

	found := NewTypeSet()
	declared := false
	prm, isParam := sc.params[v.Name]
	if isParam {
		if names := prm.Type.Names(); len(names) > 0 {
			declared = true
			if prm.Variadic {
				found.Add("array")
			} else {
				found.Add(names...)
			}
		}
		if c, ok := ast.Unparen(prm.Default).(*ast.ConstFetch); ok && strings.EqualFold(c.Name, "null") {
			found.Add("null")
		}
	}
	for _, docs := range [][]string{sc.paramDoc[v.Name], sc.docVars[v.Name], sc.catches[v.Name]} {
		if len(docs) > 0 {
			declared = true
			found.Add(docs...)
		}
	}
	fb, isForeach := sc.foreach[v.Name]
	if isForeach && fb.key && !declared {
		// keys of an array
		found.Add("int", "string")
		declared = true
	}

	complete := declared || !isParam
	for _, value := range sc.assigns[v.Name] {
		if value == nil {
			if !declared {
				complete = false
			}
			continue
		}
		if !t.expr(value, found, depth+1) && !declared {
			complete = false
		}
	}
	out.Union(found)
	return complete && !found.Empty()
}

func (t *typer) call(c *ast.Call, out TypeSet) bool {
	if c.Name == "" {
		return false
	}
	if t.r.index != nil {
		if fn, ok := t.r.index.LookupFunction(c); ok {
			return t.declaredReturn(fn.Decl, "", out)
		}
	}
	if types, ok := builtinReturnType(c.Name); ok {
		out.Add(types...)
		return true
	}
	return false
}

// declaredReturn reads a function's return hint, falling back to its
// @return tag.
func (t *typer) declaredReturn(fn *ast.FuncDecl, class string, out TypeSet) bool {
	if names := fn.ReturnType.Names(); len(names) > 0 {
		for _, n := range names {
			switch strings.ToLower(n) {
			case "static", "self", "$this":
				if class == "" {
					return false
				}
				n = class
			}
			out.Add(n)
		}
		return true
	}
	for _, tag := range parseDocTags(fn.Doc) {
		if tag.Name != "return" {
			continue
		}
		for _, atom := range tag.Types {
			out.Add(docTypeNames(atom, nil, class)...)
		}
		return !out.Empty()
	}
	return false
}

func (t *typer) methodCall(m *ast.MethodCall, out TypeSet, depth int) bool {
	if m.Method == "" {
		return false
	}
	objects := NewTypeSet()
	if !t.expr(m.Object, objects, depth+1) {
		return false
	}
	classes := objects.Classes()
	if len(classes) == 0 {
		return false
	}
	ok := true
	for _, class := range classes {
		if !t.method(class, m.Method, out) {
			ok = false
		}
	}
	if m.NullSafe {
		out.Add("null")
	}
	return ok
}

func (t *typer) method(class, name string, out TypeSet) bool {
	if class == "" || name == "" || t.r.index == nil {
		return false
	}
	decl, _, ok := t.r.index.FindMethod(class, name)
	if !ok {
		return false
	}
	return t.declaredReturn(decl, class, out)
}

func (t *typer) propertyFetch(p *ast.PropertyFetch, out TypeSet, depth int) bool {
	if p.Name == "" {
		return false
	}
	objects := NewTypeSet()
	if !t.expr(p.Object, objects, depth+1) {
		return false
	}
	classes := objects.Classes()
	if len(classes) == 0 {
		return false
	}
	ok := true
	for _, class := range classes {
		if !t.property(class, p.Name, out) {
			ok = false
		}
	}
	return ok
}

func (t *typer) property(class, name string, out TypeSet) bool {
	if class == "" || t.r.index == nil {
		return false
	}
	prop, _, ok := t.r.index.FindProperty(class, name)
	if !ok {
		return false
	}
	if names := prop.Type.Names(); len(names) > 0 {
		out.Add(names...)
		return true
	}
	for _, tag := range parseDocTags(prop.Doc) {
		if tag.Name != "var" {
			continue
		}
		for _, atom := range tag.Types {
			out.Add(docTypeNames(atom, nil, class)...)
		}
		return !out.Empty()
	}
	return false
}

func (t *typer) classConst(c *ast.ClassConstFetch, out TypeSet, depth int) bool {
	if strings.EqualFold(c.Const, "class") {
		out.Add("string")
		return true
	}
	if c.Class != nil || c.ClassName == "" || t.r.index == nil {
		return false
	}
	class := t.className(c, c.ClassName)
	item, owner, ok := t.r.index.ClassConst(class, c.Const)
	if !ok {
		return false
	}
	if item.Value == nil || owner.Decl.Kind == ast.KindEnum {
		out.Add(owner.FQN)
		return true
	}
	return t.expr(item.Value, out, depth+1)
}

func (t *typer) arrayAccess(a *ast.ArrayAccess, out TypeSet, depth int) bool {
	container := NewTypeSet()
	if !t.expr(a.Container, container, depth+1) {
		return false
	}
	if container.Len() == 1 && container.Has("string") {
		out.Add("string")
		return true
	}
	return false
}
