package ast

import (
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Span source.Span
	X    Expr
}

// Echo covers echo, print statements and <?= tags.
type Echo struct {
	Span source.Span
	Args []Expr
}

// InlineHTML is text outside PHP tags.
type InlineHTML struct {
	Span source.Span
}

type Return struct {
	Span source.Span
	X    Expr
}

type Block struct {
	Span  source.Span
	Stmts []Stmt
}

// ElseIf is one elseif branch of an If.
type ElseIf struct {
	Cond Expr
	Body []Stmt
}

type If struct {
	Span    source.Span
	Cond    Expr
	Then    []Stmt
	ElseIfs []ElseIf
	Else    []Stmt
}

type While struct {
	Span source.Span
	Cond Expr
	Body []Stmt
}

type DoWhile struct {
	Span source.Span
	Body []Stmt
	Cond Expr
}

type For struct {
	Span source.Span
	Init []Expr
	Cond []Expr
	Step []Expr
	Body []Stmt
}

// Foreach is foreach (X as Key => Value); Key may be nil.
type Foreach struct {
	Span  source.Span
	X     Expr
	Key   Expr
	Value Expr
	ByRef bool
	Body  []Stmt
}

// Case is one switch case; Cond is nil for default.
type Case struct {
	Cond Expr
	Body []Stmt
}

type Switch struct {
	Span    source.Span
	Subject Expr
	Cases   []Case
}

// Catch is one catch clause; Var is empty for catch (E) without a variable.
type Catch struct {
	Types []string
	Var   string
	Body  []Stmt
}

type Try struct {
	Span    source.Span
	Body    []Stmt
	Catches []Catch
	Finally []Stmt
}

type Throw struct {
	Span source.Span
	X    Expr
}

// Jump is break or continue.
type Jump struct {
	Span source.Span
	Kind token.Kind
}

type Global struct {
	Span  source.Span
	Names []string
}

// StaticVar is one variable of a static declaration inside a function.
type StaticVar struct {
	Name string
	Init Expr
}

type Static struct {
	Span source.Span
	Vars []StaticVar
}

type Unset struct {
	Span source.Span
	Args []Expr
}

// Namespace is a namespace declaration; Body is nil for the unbraced form,
// whose statements follow as siblings.
type Namespace struct {
	Span   source.Span
	Name   string
	Braced bool
	Body   []Stmt
}

// UseKind tells which symbol table a use statement imports into.
type UseKind uint8

const (
	UseClass UseKind = iota
	UseFunction
	UseConst
)

// UseItem is one imported name with its local alias.
type UseItem struct {
	Name  string // fully qualified, leading backslash
	Alias string
	Kind  UseKind
}

type Use struct {
	Span  source.Span
	Items []UseItem
}

// Nop is an empty statement or a skipped declare/goto/label.
type Nop struct {
	Span source.Span
}

// BadStmt covers input the parser skipped during recovery.
type BadStmt struct {
	Span source.Span
}

func (n *ExprStmt) span() source.Span   { return n.Span }
func (n *Echo) span() source.Span       { return n.Span }
func (n *InlineHTML) span() source.Span { return n.Span }
func (n *Return) span() source.Span     { return n.Span }
func (n *Block) span() source.Span      { return n.Span }
func (n *If) span() source.Span         { return n.Span }
func (n *While) span() source.Span      { return n.Span }
func (n *DoWhile) span() source.Span    { return n.Span }
func (n *For) span() source.Span        { return n.Span }
func (n *Foreach) span() source.Span    { return n.Span }
func (n *Switch) span() source.Span     { return n.Span }
func (n *Try) span() source.Span        { return n.Span }
func (n *Throw) span() source.Span      { return n.Span }
func (n *Jump) span() source.Span       { return n.Span }
func (n *Global) span() source.Span     { return n.Span }
func (n *Static) span() source.Span     { return n.Span }
func (n *Unset) span() source.Span      { return n.Span }
func (n *Namespace) span() source.Span  { return n.Span }
func (n *Use) span() source.Span        { return n.Span }
func (n *Nop) span() source.Span        { return n.Span }
func (n *BadStmt) span() source.Span    { return n.Span }

func (*ExprStmt) stmtNode()   {}
func (*Echo) stmtNode()       {}
func (*InlineHTML) stmtNode() {}
func (*Return) stmtNode()     {}
func (*Block) stmtNode()      {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*DoWhile) stmtNode()    {}
func (*For) stmtNode()        {}
func (*Foreach) stmtNode()    {}
func (*Switch) stmtNode()     {}
func (*Try) stmtNode()        {}
func (*Throw) stmtNode()      {}
func (*Jump) stmtNode()       {}
func (*Global) stmtNode()     {}
func (*Static) stmtNode()     {}
func (*Unset) stmtNode()      {}
func (*Namespace) stmtNode()  {}
func (*Use) stmtNode()        {}
func (*Nop) stmtNode()        {}
func (*BadStmt) stmtNode()    {}
