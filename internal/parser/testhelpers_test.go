package parser

import (
	"fmt"
	"strings"
	"testing"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.php", []byte(src))
	bag := diag.NewBag(100)
	file := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 100})
	return file, bag
}

func parseClean(t *testing.T, src string) *ast.File {
	t.Helper()
	file, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return file
}

// collect returns every node of type T in preorder.
func collect[T ast.Node](root ast.Node) []T {
	var out []T
	ast.Inspect(root, func(n ast.Node) bool {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

func exprOf(t *testing.T, st ast.Stmt) ast.Expr {
	t.Helper()
	es, ok := st.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", st)
	}
	return es.X
}
