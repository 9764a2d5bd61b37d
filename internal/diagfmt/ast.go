package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"pcrelint/internal/ast"
	"pcrelint/internal/source"
)

type ASTNodeOutput struct {
	Type     string           `json:"type"`
	Span     source.Span      `json:"span"`
	Children []*ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the file name followed by an indented outline of
// the tree.
func FormatASTPretty(w io.Writer, tree *ast.File, f *source.File) error {
	if tree == nil {
		return fmt.Errorf("no tree")
	}
	if f != nil {
		if _, err := fmt.Fprintf(w, "# %s\n", f.Path); err != nil {
			return err
		}
	}
	return ast.Fprint(w, tree)
}

// BuildASTOutput converts the tree into nested ASTNodeOutput values. A node
// is a child of the closest preceding node whose span contains it.
func BuildASTOutput(tree *ast.File) *ASTNodeOutput {
	var root *ASTNodeOutput
	var stack []*ASTNodeOutput
	ast.Inspect(tree, func(n ast.Node) bool {
		sp := ast.SpanOf(n)
		for len(stack) > 0 && !stack[len(stack)-1].Span.Contains(sp) {
			stack = stack[:len(stack)-1]
		}
		node := &ASTNodeOutput{Type: ast.Describe(n), Span: sp}
		switch {
		case root == nil:
			root = node
		case len(stack) == 0:
			root.Children = append(root.Children, node)
		default:
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
		return true
	})
	return root
}

// FormatASTJSON writes the outline of the tree as indented JSON.
func FormatASTJSON(w io.Writer, tree *ast.File) error {
	if tree == nil {
		return fmt.Errorf("no tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildASTOutput(tree))
}
