package symbols

import (
	"pcrelint/internal/ast"
	"pcrelint/internal/source"
)

// Kind classifies an indexed declaration.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindConst
	KindClass
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Const is a global constant from "const X = ..." or define('X', ...).
type Const struct {
	FQN   string
	Value ast.Expr
	File  source.FileID
	Span  source.Span
}

// Class is a class-like declaration.
type Class struct {
	FQN  string
	Decl *ast.ClassDecl
	File source.FileID
}

// Parents returns the direct supertypes: parent class, interfaces and traits.
func (c *Class) Parents() []string {
	var out []string
	if c.Decl.Parent != "" {
		out = append(out, c.Decl.Parent)
	}
	out = append(out, c.Decl.Interfaces...)
	return append(out, c.Decl.Traits...)
}

// Function is a named global function.
type Function struct {
	FQN  string
	Decl *ast.FuncDecl
	File source.FileID
}
