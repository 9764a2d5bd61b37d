package ast

import "pcrelint/internal/source"

// Node is implemented by every tree node.
type Node interface {
	span() source.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// SpanOf returns the source span of n, or an empty span for nil.
func SpanOf(n Node) source.Span {
	if n == nil {
		return source.Span{}
	}
	return n.span()
}

// File is the root of one parsed PHP file.
type File struct {
	ID    source.FileID
	Span  source.Span
	Stmts []Stmt
	// Docs holds every /** */ block in source order.
	Docs []Doc
}

// Doc is a docblock comment.
type Doc struct {
	Span source.Span
	Text string
}

func (f *File) span() source.Span { return f.Span }

// DocsWithin returns the docblocks located inside sp.
func (f *File) DocsWithin(sp source.Span) []Doc {
	var out []Doc
	for _, d := range f.Docs {
		if sp.Contains(d.Span) {
			out = append(out, d)
		}
	}
	return out
}
