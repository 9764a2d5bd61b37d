package ast

import (
	"strings"

	"pcrelint/internal/source"
)

// TypeHint is a declared type: ?Foo, int|string, A&B.
type TypeHint struct {
	Span     source.Span
	Types    []string
	Nullable bool
}

// Names returns the hint's type names, adding "null" for ?T.
func (t *TypeHint) Names() []string {
	if t == nil {
		return nil
	}
	out := append([]string(nil), t.Types...)
	if t.Nullable {
		out = append(out, "null")
	}
	return out
}

func (t *TypeHint) String() string {
	if t == nil {
		return ""
	}
	s := strings.Join(t.Types, "|")
	if t.Nullable {
		return "?" + s
	}
	return s
}

// Param is a function or method parameter.
type Param struct {
	Span     source.Span
	Name     string // without '$'
	Type     *TypeHint
	Default  Expr
	ByRef    bool
	Variadic bool
	Promoted bool
}

// FuncDecl is a named function or a class method.
type FuncDecl struct {
	Span       source.Span
	Name       string
	FQN        string // functions only
	Params     []Param
	ReturnType *TypeHint
	Body       []Stmt // nil for abstract and interface methods
	Doc        string
	ByRef      bool
	Static     bool
	Abstract   bool
}

// ConstItem is one name = value pair of a const declaration.
type ConstItem struct {
	Span  source.Span
	Name  string
	FQN   string // global constants only
	Value Expr
}

// ConstDecl is a top-level const statement.
type ConstDecl struct {
	Span  source.Span
	Items []ConstItem
}

// PropDecl is a class property.
type PropDecl struct {
	Span    source.Span
	Name    string
	Type    *TypeHint
	Default Expr
	Static  bool
	Doc     string
}

// ClassKind distinguishes class-like declarations.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// ClassDecl is a class, interface, trait or enum.
type ClassDecl struct {
	Span source.Span
	Kind ClassKind
	Name string
	FQN  string
	// Parent is the resolved parent class ("" when none). Interfaces list
	// their parents in Interfaces.
	Parent     string
	Interfaces []string
	Traits     []string
	Consts     []ConstItem
	Props      []PropDecl
	Methods    []*FuncDecl
	Doc        string
	Abstract   bool
	Final      bool
}

// Method returns the method with the given name, ignoring case.
func (c *ClassDecl) Method(name string) (*FuncDecl, bool) {
	for _, m := range c.Methods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

func (n *FuncDecl) span() source.Span  { return n.Span }
func (n *ConstDecl) span() source.Span { return n.Span }
func (n *ClassDecl) span() source.Span { return n.Span }

func (*FuncDecl) stmtNode()  {}
func (*ConstDecl) stmtNode() {}
func (*ClassDecl) stmtNode() {}
