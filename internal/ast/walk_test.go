package ast

import (
	"strings"
	"testing"
)

func sampleFile() *File {
	call := &Call{Name: "preg_match", Args: []Arg{{Value: &StringLit{Raw: `'/a/'`, Value: "/a/"}}, {Value: &Variable{Name: "s"}}}}
	method := &FuncDecl{Name: "run", Body: []Stmt{&ExprStmt{X: call}}}
	class := &ClassDecl{FQN: `\App\Job`, Methods: []*FuncDecl{method}}
	closure := &Closure{Arrow: &Include{Arg: &StringLit{Raw: `'x.php'`, Value: "x.php"}}}
	return &File{Stmts: []Stmt{
		class,
		&ExprStmt{X: &Assign{Target: &Variable{Name: "f"}, Value: closure}},
	}}
}

func TestInspectVisitsNestedBodies(t *testing.T) {
	var kinds []string
	Inspect(sampleFile(), func(n Node) bool {
		kinds = append(kinds, Describe(n))
		return true
	})
	got := strings.Join(kinds, "|")
	for _, want := range []string{"Method run", "Call preg_match args=2", "ArrowFunction", "Include"} {
		if !strings.Contains(got, want) {
			t.Fatalf("traversal missed %q: %s", want, got)
		}
	}
}

func TestInspectPrune(t *testing.T) {
	calls := 0
	Inspect(sampleFile(), func(n Node) bool {
		if _, ok := n.(*ClassDecl); ok {
			return false
		}
		if _, ok := n.(*Call); ok {
			calls++
		}
		return true
	})
	if calls != 0 {
		t.Fatalf("pruned class body should hide its calls, saw %d", calls)
	}
}

func TestInspectNilSafe(t *testing.T) {
	var f *File
	Inspect(f, func(Node) bool {
		t.Fatal("callback must not run for a nil file")
		return true
	})
	Inspect(&ArrayAccess{Container: &Variable{Name: "a"}}, func(Node) bool { return true })
}
