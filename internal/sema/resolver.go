// Package sema answers the two questions the inspectors ask about an
// expression: which string literal it stands for, and which types it may
// have at runtime.
package sema

import (
	"bytes"

	"pcrelint/internal/ast"
	"pcrelint/internal/source"
	"pcrelint/internal/symbols"
)

// maxDepth bounds how many constants and variables a resolution may follow.
const maxDepth = 8

// Literal is a string literal an expression resolved to, together with the
// file that declares it.
type Literal struct {
	Node *ast.StringLit
	File source.FileID
}

// Resolver resolves expressions of one parsed file. The index may be nil;
// resolution is then limited to the file itself.
type Resolver struct {
	index *symbols.Table
	src   *source.File
	file  *ast.File
	nodes map[ast.Node]*scope
	root  *scope
}

// NewResolver records variable scopes of file eagerly, so the resolver is
// safe for concurrent reads afterwards.
func NewResolver(index *symbols.Table, src *source.File, file *ast.File) *Resolver {
	r := &Resolver{index: index, src: src, file: file}
	r.nodes, r.root = buildScopes(r)
	return r
}

// File returns the resolved file's id.
func (r *Resolver) File() source.FileID { return r.file.ID }

// Index returns the symbol index, possibly nil.
func (r *Resolver) Index() *symbols.Table { return r.index }

// Text returns the source text under sp, or "" when sp does not lie in the
// resolved file.
func (r *Resolver) Text(sp source.Span) string {
	if r.src == nil || sp.File != r.file.ID || sp.End < sp.Start || int(sp.End) > len(r.src.Content) {
		return ""
	}
	return string(r.src.Content[sp.Start:sp.End])
}

func (r *Resolver) scopeOf(n ast.Node) *scope {
	if sc, ok := r.nodes[n]; ok {
		return sc
	}
	return r.root
}

// docBefore returns the docblock directly preceding sp with nothing but
// whitespace in between.
func (r *Resolver) docBefore(sp source.Span) (ast.Doc, bool) {
	var found ast.Doc
	ok := false
	for _, d := range r.file.Docs {
		if d.Span.End > sp.Start {
			break
		}
		found, ok = d, true
	}
	if !ok || r.src == nil {
		return ast.Doc{}, false
	}
	content := r.src.Content
	if int(sp.Start) > len(content) || found.Span.End > sp.Start {
		return ast.Doc{}, false
	}
	if len(bytes.TrimSpace(content[found.Span.End:sp.Start])) != 0 {
		return ast.Doc{}, false
	}
	return found, true
}
