package ast

import (
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

// StringKind tells how a string literal was written.
type StringKind uint8

const (
	SingleQuoted StringKind = iota
	DoubleQuoted
	Heredoc
	Nowdoc
	ShellExec
)

// Interp is a variable or expression interpolated into a string.
type Interp struct {
	Name string
	Span source.Span
}

// StringLit is a string literal. Value holds the decoded runtime value.
type StringLit struct {
	Span   source.Span
	Kind   StringKind
	Raw    string
	Value  string
	Interp []Interp
}

// HasInterpolation reports whether the literal embeds variables.
func (s *StringLit) HasInterpolation() bool { return len(s.Interp) > 0 }

// NumberLit is an integer or float literal.
type NumberLit struct {
	Span  source.Span
	Raw   string
	Float bool
}

// Variable is $name; for $$x and ${expr} Name is empty and Dynamic is set.
type Variable struct {
	Span    source.Span
	Name    string
	Dynamic Expr
}

// ConstFetch is a bare name used as a value: FOO, \NS\FOO, true, null, __DIR__.
type ConstFetch struct {
	Span source.Span
	// Name is the name as written, without a leading backslash.
	Name string
	// FullyQualified is set when the source name started with a backslash.
	FullyQualified bool
	// Namespace is the enclosing namespace for unqualified fallback lookup.
	Namespace string
}

// ClassConstFetch is Class::CONST.
type ClassConstFetch struct {
	Span source.Span
	// ClassName is the resolved class ("" when Class is an expression).
	ClassName string
	Class     Expr
	Const     string
}

// StaticPropertyFetch is Class::$prop.
type StaticPropertyFetch struct {
	Span      source.Span
	ClassName string
	Class     Expr
	Name      string
}

// Arg is a call argument.
type Arg struct {
	Span   source.Span
	Name   string // named argument label, if any
	Value  Expr
	Spread bool
}

// Call is a function call. Name is empty for dynamic callees.
type Call struct {
	Span     source.Span
	Name     string // as written, without a leading backslash
	NameSpan source.Span
	// Namespace is the enclosing namespace, for unqualified fallback lookup.
	Namespace string
	Callee    Expr
	Args      []Arg
}

// MethodCall is $obj->method(...) or $obj?->method(...).
type MethodCall struct {
	Span     source.Span
	Object   Expr
	Method   string // empty for dynamic method names
	NullSafe bool
	Args     []Arg
}

// StaticCall is Class::method(...).
type StaticCall struct {
	Span      source.Span
	ClassName string
	Class     Expr
	Method    string
	Args      []Arg
}

// New is new Class(...). Anonymous classes carry their body in Anon.
type New struct {
	Span      source.Span
	ClassName string
	Class     Expr
	Args      []Arg
	Anon      *ClassDecl
}

// ArrayItem is one element of an array literal.
type ArrayItem struct {
	Key    Expr
	Value  Expr
	ByRef  bool
	Spread bool
}

// ArrayLit is array(...) or [...], including list() destructuring targets.
type ArrayLit struct {
	Span  source.Span
	Items []ArrayItem
	List  bool
}

// ArrayAccess is $a[index]; Index is nil for the push form $a[].
type ArrayAccess struct {
	Span      source.Span
	Container Expr
	Index     Expr
}

// PropertyFetch is $obj->prop or $obj?->prop.
type PropertyFetch struct {
	Span     source.Span
	Object   Expr
	Name     string
	NullSafe bool
}

// Include is include/include_once/require/require_once.
type Include struct {
	Span source.Span
	Kind token.Kind
	Arg  Expr
}

// Assign is any assignment, including compound ones.
type Assign struct {
	Span   source.Span
	Op     token.Kind
	Target Expr
	Value  Expr
	ByRef  bool
}

// Binary is a binary operation; instanceof uses Op KwInstanceof with a
// ConstFetch or expression on the right.
type Binary struct {
	Span  source.Span
	Op    token.Kind
	Left  Expr
	Right Expr
}

// Unary is a prefix or postfix operation.
type Unary struct {
	Span    source.Span
	Op      token.Kind
	X       Expr
	Postfix bool
}

// Cast is (type) expr.
type Cast struct {
	Span source.Span
	Type string
	X    Expr
}

// Ternary is cond ? then : else; Then is nil for the short form.
type Ternary struct {
	Span source.Span
	Cond Expr
	Then Expr
	Else Expr
}

// Paren is a parenthesized expression.
type Paren struct {
	Span source.Span
	X    Expr
}

// ClosureUse is one variable captured by use (...).
type ClosureUse struct {
	Name  string
	ByRef bool
}

// Closure is function () use () {} or fn () => expr.
type Closure struct {
	Span       source.Span
	Params     []Param
	Uses       []ClosureUse
	ReturnType *TypeHint
	Body       []Stmt
	Arrow      Expr // body of fn () => expr
	Static     bool
}

// Other is any expression the analyzers do not look into beyond its
// children: isset(), empty(), exit, print, clone, match, throw, yield.
type Other struct {
	Span     source.Span
	Kind     string
	Children []Expr
}

// Bad marks an expression the parser could not read.
type Bad struct {
	Span source.Span
}

func (n *StringLit) span() source.Span           { return n.Span }
func (n *NumberLit) span() source.Span           { return n.Span }
func (n *Variable) span() source.Span            { return n.Span }
func (n *ConstFetch) span() source.Span          { return n.Span }
func (n *ClassConstFetch) span() source.Span     { return n.Span }
func (n *StaticPropertyFetch) span() source.Span { return n.Span }
func (n *Call) span() source.Span                { return n.Span }
func (n *MethodCall) span() source.Span          { return n.Span }
func (n *StaticCall) span() source.Span          { return n.Span }
func (n *New) span() source.Span                 { return n.Span }
func (n *ArrayLit) span() source.Span            { return n.Span }
func (n *ArrayAccess) span() source.Span         { return n.Span }
func (n *PropertyFetch) span() source.Span       { return n.Span }
func (n *Include) span() source.Span             { return n.Span }
func (n *Assign) span() source.Span              { return n.Span }
func (n *Binary) span() source.Span              { return n.Span }
func (n *Unary) span() source.Span               { return n.Span }
func (n *Cast) span() source.Span                { return n.Span }
func (n *Ternary) span() source.Span             { return n.Span }
func (n *Paren) span() source.Span               { return n.Span }
func (n *Closure) span() source.Span             { return n.Span }
func (n *Other) span() source.Span               { return n.Span }
func (n *Bad) span() source.Span                 { return n.Span }

func (*StringLit) exprNode()           {}
func (*NumberLit) exprNode()           {}
func (*Variable) exprNode()            {}
func (*ConstFetch) exprNode()          {}
func (*ClassConstFetch) exprNode()     {}
func (*StaticPropertyFetch) exprNode() {}
func (*Call) exprNode()                {}
func (*MethodCall) exprNode()          {}
func (*StaticCall) exprNode()          {}
func (*New) exprNode()                 {}
func (*ArrayLit) exprNode()            {}
func (*ArrayAccess) exprNode()         {}
func (*PropertyFetch) exprNode()       {}
func (*Include) exprNode()             {}
func (*Assign) exprNode()              {}
func (*Binary) exprNode()              {}
func (*Unary) exprNode()               {}
func (*Cast) exprNode()                {}
func (*Ternary) exprNode()             {}
func (*Paren) exprNode()               {}
func (*Closure) exprNode()             {}
func (*Other) exprNode()               {}
func (*Bad) exprNode()                 {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.X
	}
}
