// Package symbols indexes the global declarations of a project: constants,
// classes and functions. The table is filled once before analysis and only
// read afterwards, so concurrent readers need no locking.
package symbols

import (
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/source"
)

// Table is the project-wide declaration index.
type Table struct {
	consts    map[string]*Const
	classes   map[string]*Class
	functions map[string]*Function
	files     int
}

// Stats counts indexed declarations.
type Stats struct {
	Files, Consts, Classes, Functions int
}

func NewTable() *Table {
	return &Table{
		consts:    make(map[string]*Const),
		classes:   make(map[string]*Class),
		functions: make(map[string]*Function),
	}
}

func (t *Table) Stats() Stats {
	return Stats{Files: t.files, Consts: len(t.consts), Classes: len(t.classes), Functions: len(t.functions)}
}

// normalizeFQN returns name with exactly one leading backslash.
func normalizeFQN(name string) string {
	return "\\" + strings.TrimLeft(name, "\\")
}

func classKey(name string) string { return strings.ToLower(normalizeFQN(name)) }

// constKey lowercases the namespace part only; constant names are case
// sensitive.
func constKey(name string) string {
	fqn := normalizeFQN(name)
	i := strings.LastIndexByte(fqn, '\\')
	return strings.ToLower(fqn[:i+1]) + fqn[i+1:]
}

// AddFile indexes every declaration of file, including conditional ones
// nested in blocks. The first declaration of a name wins.
func (t *Table) AddFile(file *ast.File) {
	if file == nil {
		return
	}
	t.files++
	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ConstDecl:
			for _, it := range n.Items {
				t.addConst(&Const{FQN: it.FQN, Value: it.Value, File: file.ID, Span: it.Span})
			}
		case *ast.Call:
			t.addDefine(file.ID, n)
		case *ast.FuncDecl:
			if n.FQN != "" {
				key := strings.ToLower(n.FQN)
				if _, dup := t.functions[key]; !dup {
					t.functions[key] = &Function{FQN: n.FQN, Decl: n, File: file.ID}
				}
			}
		case *ast.ClassDecl:
			if n.FQN != "" {
				key := classKey(n.FQN)
				if _, dup := t.classes[key]; !dup {
					t.classes[key] = &Class{FQN: n.FQN, Decl: n, File: file.ID}
				}
			}
		}
		return true
	})
}

func (t *Table) addConst(c *Const) {
	if c.FQN == "" {
		return
	}
	key := constKey(c.FQN)
	if _, dup := t.consts[key]; !dup {
		t.consts[key] = c
	}
}

// addDefine records define('NAME', value) calls with a literal name.
func (t *Table) addDefine(file source.FileID, call *ast.Call) {
	if call.Callee != nil || !strings.EqualFold(call.Name, "define") || len(call.Args) < 2 {
		return
	}
	name, ok := ast.Unparen(call.Args[0].Value).(*ast.StringLit)
	if !ok || name.HasInterpolation() || name.Value == "" {
		return
	}
	t.addConst(&Const{FQN: normalizeFQN(name.Value), Value: call.Args[1].Value, File: file, Span: call.Span})
}

// Const looks up a constant by fully qualified name.
func (t *Table) Const(fqn string) (*Const, bool) {
	c, ok := t.consts[constKey(fqn)]
	return c, ok
}

// LookupConst resolves a constant fetch with PHP's namespace fallback: an
// unqualified name is tried in its namespace first, then globally.
func (t *Table) LookupConst(fetch *ast.ConstFetch) (*Const, bool) {
	if fetch == nil {
		return nil, false
	}
	if !fetch.FullyQualified && fetch.Namespace != "" {
		if c, ok := t.Const(fetch.Namespace + "\\" + fetch.Name); ok {
			return c, true
		}
	}
	return t.Const(fetch.Name)
}

// Class looks up a class-like declaration, ignoring case.
func (t *Table) Class(fqn string) (*Class, bool) {
	c, ok := t.classes[classKey(fqn)]
	return c, ok
}

// Function looks up a function by fully qualified name, ignoring case.
func (t *Table) Function(fqn string) (*Function, bool) {
	f, ok := t.functions[strings.ToLower(normalizeFQN(fqn))]
	return f, ok
}

// LookupFunction resolves a named call with the namespace fallback.
func (t *Table) LookupFunction(call *ast.Call) (*Function, bool) {
	if call == nil || call.Name == "" {
		return nil, false
	}
	if call.Namespace != "" {
		if f, ok := t.Function(call.Namespace + "\\" + call.Name); ok {
			return f, true
		}
	}
	return t.Function(call.Name)
}

// Ancestors returns the class followed by every indexed supertype in
// breadth-first order. Unknown supertypes are skipped and cycles are cut.
func (t *Table) Ancestors(fqn string) []*Class {
	var out []*Class
	seen := make(map[string]bool)
	queue := []string{fqn}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		key := classKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		c, ok := t.classes[key]
		if !ok {
			continue
		}
		out = append(out, c)
		queue = append(queue, c.Parents()...)
	}
	return out
}

// Supertypes returns the names of every supertype of fqn, known to the index
// or not, excluding fqn itself.
func (t *Table) Supertypes(fqn string) []string {
	var out []string
	seen := map[string]bool{classKey(fqn): true}
	for _, c := range t.Ancestors(fqn) {
		for _, p := range c.Parents() {
			if k := classKey(p); !seen[k] {
				seen[k] = true
				out = append(out, normalizeFQN(p))
			}
		}
	}
	return out
}

// FindMethod looks a method up on the class and its supertypes.
func (t *Table) FindMethod(classFQN, method string) (*ast.FuncDecl, *Class, bool) {
	for _, c := range t.Ancestors(classFQN) {
		if m, ok := c.Decl.Method(method); ok {
			return m, c, true
		}
	}
	return nil, nil, false
}

// FindProperty looks a property up on the class and its supertypes.
func (t *Table) FindProperty(classFQN, name string) (*ast.PropDecl, *Class, bool) {
	for _, c := range t.Ancestors(classFQN) {
		for i := range c.Decl.Props {
			if c.Decl.Props[i].Name == name {
				return &c.Decl.Props[i], c, true
			}
		}
		// promoted constructor parameters
		if ctor, ok := c.Decl.Method("__construct"); ok {
			for _, prm := range ctor.Params {
				if prm.Promoted && prm.Name == name {
					return &ast.PropDecl{Span: prm.Span, Name: prm.Name, Type: prm.Type}, c, true
				}
			}
		}
	}
	return nil, nil, false
}

// ClassConst looks up Class::NAME on the class and its supertypes.
func (t *Table) ClassConst(classFQN, name string) (ast.ConstItem, *Class, bool) {
	for _, c := range t.Ancestors(classFQN) {
		for _, it := range c.Decl.Consts {
			if it.Name == name {
				return it, c, true
			}
		}
	}
	return ast.ConstItem{}, nil, false
}
