package sema

import (
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

type scopeKind uint8

const (
	scopeFile scopeKind = iota
	scopeFunction
	scopeClosure
	scopeArrow
)

// scope collects what one function body (or the file's top level) says
// about its variables.
type scope struct {
	kind   scopeKind
	parent *scope
	// captured lists the variables a closure imports with use (...).
	captured map[string]bool
	span     source.Span
	names    *nameCtx
	class    string // enclosing class FQN, for $this, self and static

	params   map[string]*ast.Param
	paramDoc map[string][]string
	// assigns holds every plain assignment; a nil entry marks a write whose
	// value is unknown (compound assignment, reference, destructuring).
	assigns  map[string][]ast.Expr
	foreach  map[string]foreachBinding
	catches  map[string][]string
	docVars  map[string][]string
	children []*scope
}

// foreachBinding ties a loop variable to the iterated expression.
type foreachBinding struct {
	source ast.Expr
	key    bool
}

func newScope(kind scopeKind, parent *scope, span source.Span, names *nameCtx, class string) *scope {
	s := &scope{
		kind:     kind,
		parent:   parent,
		span:     span,
		names:    names,
		class:    class,
		params:   make(map[string]*ast.Param),
		paramDoc: make(map[string][]string),
		assigns:  make(map[string][]ast.Expr),
		foreach:  make(map[string]foreachBinding),
		catches:  make(map[string][]string),
		docVars:  make(map[string][]string),
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// inherits reports whether an unknown name should be looked up in the parent
// scope: arrow functions see everything, closures only their use list.
func (s *scope) inherits(name string) bool {
	switch s.kind {
	case scopeArrow:
		return s.parent != nil
	case scopeClosure:
		return s.parent != nil && s.captured[name]
	}
	return false
}

// defines reports whether the scope itself binds name.
func (s *scope) defines(name string) bool {
	if _, ok := s.params[name]; ok {
		return true
	}
	if _, ok := s.assigns[name]; ok {
		return true
	}
	if _, ok := s.foreach[name]; ok {
		return true
	}
	if _, ok := s.catches[name]; ok {
		return true
	}
	_, ok := s.docVars[name]
	return ok
}

// owner returns the scope that binds name as seen from s.
func (s *scope) owner(name string) *scope {
	cur := s
	for cur != nil {
		if cur.defines(name) || !cur.inherits(name) {
			return cur
		}
		cur = cur.parent
	}
	return s
}

func (s *scope) markUnknown(name string) {
	s.assigns[name] = append(s.assigns[name], nil)
}

// scopeBuilder walks a file once and records, for every node, the scope it
// belongs to.
type scopeBuilder struct {
	r     *Resolver
	nodes map[ast.Node]*scope
	all   []*scope
}

func buildScopes(r *Resolver) (map[ast.Node]*scope, *scope) {
	b := &scopeBuilder{r: r, nodes: make(map[ast.Node]*scope)}
	names := newNameCtx("")
	root := b.newScope(scopeFile, nil, r.file.Span, names, "")
	b.stmtList(r.file.Stmts, root, names)
	b.attachDocs(root)
	return b.nodes, root
}

func (b *scopeBuilder) newScope(kind scopeKind, parent *scope, span source.Span, names *nameCtx, class string) *scope {
	s := newScope(kind, parent, span, names, class)
	b.all = append(b.all, s)
	return s
}

// stmtList walks top-level statements, tracking namespace blocks and use
// imports for docblock resolution.
func (b *scopeBuilder) stmtList(stmts []ast.Stmt, root *scope, names *nameCtx) {
	for _, st := range stmts {
		switch st := st.(type) {
		case *ast.Namespace:
			if st.Braced {
				b.stmtList(st.Body, root, newNameCtx(st.Name))
				continue
			}
			names = newNameCtx(st.Name)
		case *ast.Use:
			for _, it := range st.Items {
				if it.Kind == ast.UseClass {
					names.imports[strings.ToLower(it.Alias)] = it.Name
				}
			}
		}
		b.walk(st, root, names)
	}
}

func (b *scopeBuilder) walk(n ast.Node, sc *scope, names *nameCtx) {
	ast.Inspect(n, func(node ast.Node) bool {
		b.nodes[node] = sc
		switch x := node.(type) {
		case *ast.FuncDecl:
			b.function(x, sc, names, "")
			return false
		case *ast.ClassDecl:
			for _, m := range x.Methods {
				b.nodes[m] = sc
				b.function(m, sc, names, x.FQN)
			}
			for _, c := range x.Consts {
				b.walk(c.Value, sc, names)
			}
			for _, p := range x.Props {
				b.walk(p.Default, sc, names)
			}
			return false
		case *ast.Closure:
			b.closure(x, sc, names)
			return false
		case *ast.ExprStmt:
			b.docAssign(x, sc, names)
		case *ast.Assign:
			b.assign(x, sc)
		case *ast.Unary:
			if x.Op == token.Inc || x.Op == token.Dec {
				b.unknownTarget(x.X, sc)
			}
		case *ast.Foreach:
			b.foreachVar(x.Key, x.X, true, sc)
			b.foreachVar(x.Value, x.X, false, sc)
			if x.ByRef {
				b.unknownTarget(x.X, sc)
			}
		case *ast.Try:
			for _, c := range x.Catches {
				if c.Var != "" {
					sc.catches[c.Var] = append(sc.catches[c.Var], c.Types...)
					sc.markUnknown(c.Var)
				}
			}
		case *ast.Global:
			for _, name := range x.Names {
				sc.markUnknown(name)
			}
		case *ast.Static:
			for _, v := range x.Vars {
				if v.Init != nil {
					sc.assigns[v.Name] = append(sc.assigns[v.Name], v.Init)
				} else {
					sc.markUnknown(v.Name)
				}
			}
		case *ast.Unset:
			for _, a := range x.Args {
				b.unknownTarget(a, sc)
			}
		case *ast.Call:
			b.byRefArgs(x, sc)
		}
		return true
	})
}

func (b *scopeBuilder) function(fn *ast.FuncDecl, parent *scope, names *nameCtx, class string) {
	sc := b.newScope(scopeFunction, parent, fn.Span, names, class)
	b.nodes[fn] = parent
	b.params(fn.Params, sc, names)
	for _, tag := range parseDocTags(fn.Doc) {
		if tag.Name == "param" && tag.Var != "" {
			sc.paramDoc[tag.Var] = append(sc.paramDoc[tag.Var], b.docTypes(tag.Types, names, class)...)
		}
	}
	for _, st := range fn.Body {
		b.walk(st, sc, names)
	}
}

func (b *scopeBuilder) closure(c *ast.Closure, parent *scope, names *nameCtx) {
	kind := scopeClosure
	if c.Arrow != nil {
		kind = scopeArrow
	}
	sc := b.newScope(kind, parent, c.Span, names, parent.class)
	sc.captured = make(map[string]bool, len(c.Uses))
	for _, u := range c.Uses {
		sc.captured[u.Name] = true
		if u.ByRef {
			// writes inside the closure reach the outer variable
			parent.markUnknown(u.Name)
		}
	}
	b.params(c.Params, sc, names)
	for _, st := range c.Body {
		b.walk(st, sc, names)
	}
	if c.Arrow != nil {
		b.walk(c.Arrow, sc, names)
	}
}

func (b *scopeBuilder) params(params []ast.Param, sc *scope, names *nameCtx) {
	for i := range params {
		prm := &params[i]
		sc.params[prm.Name] = prm
		if prm.Default != nil {
			b.walk(prm.Default, sc, names)
		}
	}
}

func (b *scopeBuilder) assign(a *ast.Assign, sc *scope) {
	if v, ok := a.Target.(*ast.Variable); ok && v.Name != "" {
		if a.Op == token.Assign && !a.ByRef {
			sc.assigns[v.Name] = append(sc.assigns[v.Name], a.Value)
		} else {
			sc.markUnknown(v.Name)
		}
		if a.ByRef {
			b.unknownTarget(a.Value, sc)
		}
		return
	}
	b.unknownTarget(a.Target, sc)
}

// unknownTarget marks the base variable of a written expression.
func (b *scopeBuilder) unknownTarget(e ast.Expr, sc *scope) {
	switch e := ast.Unparen(e).(type) {
	case *ast.Variable:
		if e.Name != "" {
			sc.markUnknown(e.Name)
		}
	case *ast.ArrayAccess:
		b.unknownTarget(e.Container, sc)
	case *ast.ArrayLit:
		for _, it := range e.Items {
			b.unknownTarget(it.Value, sc)
		}
	}
}

func (b *scopeBuilder) foreachVar(target, src ast.Expr, key bool, sc *scope) {
	switch t := ast.Unparen(target).(type) {
	case *ast.Variable:
		if t.Name != "" {
			sc.foreach[t.Name] = foreachBinding{source: src, key: key}
			sc.markUnknown(t.Name)
		}
	case *ast.ArrayLit:
		b.unknownTarget(t, sc)
	}
}

// byRefArgs marks variables passed to parameters taken by reference: the
// out-arguments of well known functions and of indexed user functions.
func (b *scopeBuilder) byRefArgs(call *ast.Call, sc *scope) {
	positions := byRefBuiltins[strings.ToLower(call.Name)]
	if b.r.index != nil {
		if fn, ok := b.r.index.LookupFunction(call); ok {
			positions = nil
			for i, prm := range fn.Decl.Params {
				if prm.ByRef {
					positions = append(positions, i)
				}
			}
		}
	}
	for _, pos := range positions {
		if pos < len(call.Args) {
			b.unknownTarget(call.Args[pos].Value, sc)
		}
	}
}

var byRefBuiltins = map[string][]int{
	"preg_match": {2}, "preg_match_all": {2}, "preg_replace": {4}, "preg_replace_callback": {4},
	"sort": {0}, "rsort": {0}, "usort": {0}, "uasort": {0}, "uksort": {0}, "ksort": {0},
	"krsort": {0}, "asort": {0}, "arsort": {0}, "shuffle": {0}, "array_push": {0},
	"array_pop": {0}, "array_shift": {0}, "array_unshift": {0}, "array_splice": {0},
	"settype": {0}, "parse_str": {1}, "str_replace": {3}, "str_ireplace": {3}, "exec": {1, 2},
}

// docAssign applies "/** @var T */" placed right before "$x = ...".
func (b *scopeBuilder) docAssign(st *ast.ExprStmt, sc *scope, names *nameCtx) {
	as, ok := st.X.(*ast.Assign)
	if !ok {
		return
	}
	v, ok := as.Target.(*ast.Variable)
	if !ok || v.Name == "" {
		return
	}
	doc, ok := b.r.docBefore(st.Span)
	if !ok {
		return
	}
	for _, tag := range parseDocTags(doc.Text) {
		if tag.Name == "var" && (tag.Var == "" || tag.Var == v.Name) {
			sc.docVars[v.Name] = append(sc.docVars[v.Name], b.docTypes(tag.Types, names, sc.class)...)
		}
	}
}

func (b *scopeBuilder) docTypes(atoms []string, names *nameCtx, class string) []string {
	var out []string
	for _, a := range atoms {
		out = append(out, docTypeNames(a, names, class)...)
	}
	return out
}

// attachDocs assigns every named "@var T $x" docblock to the innermost
// scope containing it.
func (b *scopeBuilder) attachDocs(root *scope) {
	for _, d := range b.r.file.Docs {
		sc := innermost(root, d.Span)
		for _, tag := range parseDocTags(d.Text) {
			if tag.Name == "var" && tag.Var != "" {
				sc.docVars[tag.Var] = append(sc.docVars[tag.Var], b.docTypes(tag.Types, sc.names, sc.class)...)
			}
		}
	}
}

func innermost(sc *scope, sp source.Span) *scope {
	for _, child := range sc.children {
		if child.span.Contains(sp) {
			return innermost(child, sp)
		}
	}
	return sc
}
