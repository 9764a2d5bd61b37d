package symbols

import (
	"testing"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/parser"
	"pcrelint/internal/source"
)

func buildTable(t *testing.T, files map[string]string) (*Table, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	table := NewTable()
	for _, name := range []string{"a.php", "b.php", "c.php"} {
		src, ok := files[name]
		if !ok {
			continue
		}
		id := fs.AddVirtual(name, []byte(src))
		bag := diag.NewBag(20)
		file := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			t.Fatalf("%s: unexpected parse errors", name)
		}
		table.AddFile(file)
	}
	return table, fs
}

func TestTableConstants(t *testing.T) {
	table, _ := buildTable(t, map[string]string{
		"a.php": `<?php namespace App; const RE = '/a/'; define('GLOBAL_RE', '/b/');`,
		"b.php": `<?php const RE = '/global/'; if (!defined('NESTED')) { define('NESTED', 1); }`,
	})

	tests := []struct {
		name      string
		fetch     ast.ConstFetch
		wantFound bool
		wantFQN   string
	}{
		{"namespaced first", ast.ConstFetch{Name: "RE", Namespace: "App"}, true, `\App\RE`},
		{"global fallback", ast.ConstFetch{Name: "GLOBAL_RE", Namespace: "App"}, true, `\GLOBAL_RE`},
		{"unqualified global", ast.ConstFetch{Name: "RE"}, true, `\RE`},
		{"fully qualified", ast.ConstFetch{Name: `App\RE`, FullyQualified: true}, true, `\App\RE`},
		{"namespace is case insensitive", ast.ConstFetch{Name: `app\RE`, FullyQualified: true}, true, `\App\RE`},
		{"name is case sensitive", ast.ConstFetch{Name: "re"}, false, ""},
		{"nested declaration", ast.ConstFetch{Name: "NESTED"}, true, `\NESTED`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := table.LookupConst(&tt.fetch)
			if ok != tt.wantFound {
				t.Fatalf("found = %v, want %v", ok, tt.wantFound)
			}
			if ok && c.FQN != tt.wantFQN {
				t.Fatalf("FQN = %q, want %q", c.FQN, tt.wantFQN)
			}
		})
	}
}

func TestTableClassHierarchy(t *testing.T) {
	table, _ := buildTable(t, map[string]string{
		"a.php": `<?php namespace App;
interface Store extends \ArrayAccess { const PREFIX = 'p'; }
abstract class Base implements Store {
    public function offsetGet(int $k): mixed { return null; }
    protected ?string $name;
}`,
		"b.php": `<?php namespace App;
final class Repo extends Base {
    public function __construct(private array $items) {}
}
class Loop extends Loop {}`,
	})

	if got := table.Stats(); got.Classes != 4 || got.Files != 2 {
		t.Fatalf("unexpected stats %+v", got)
	}
	m, owner, ok := table.FindMethod(`\app\repo`, "OffsetGet")
	if !ok || owner.FQN != `\App\Base` || m.Params[0].Type.String() != "int" {
		t.Fatalf("offsetGet not inherited: %v %v", ok, owner)
	}
	if _, _, ok := table.ClassConst(`App\Repo`, "PREFIX"); !ok {
		t.Fatalf("interface constant not found through hierarchy")
	}
	supers := table.Supertypes(`\App\Repo`)
	want := []string{`\App\Base`, `\App\Store`, `\ArrayAccess`}
	if len(supers) != len(want) {
		t.Fatalf("supertypes = %v, want %v", supers, want)
	}
	for i := range want {
		if supers[i] != want[i] {
			t.Fatalf("supertypes = %v, want %v", supers, want)
		}
	}
	if p, _, ok := table.FindProperty(`\App\Repo`, "items"); !ok || p.Type.String() != "array" {
		t.Fatalf("promoted property not found")
	}
	if p, _, ok := table.FindProperty(`\App\Repo`, "name"); !ok || p.Type.String() != "?string" {
		t.Fatalf("inherited property not found")
	}
	if got := len(table.Ancestors(`\App\Loop`)); got != 1 {
		t.Fatalf("self-inheritance cycle should be cut, got %d ancestors", got)
	}
}

func TestTableFunctions(t *testing.T) {
	table, _ := buildTable(t, map[string]string{
		"a.php": `<?php namespace Lib; function pattern(): string { return '/x/'; }`,
		"b.php": `<?php function helper() {} function pattern() {}`,
	})
	f, ok := table.LookupFunction(&ast.Call{Name: "pattern", Namespace: "Lib"})
	if !ok || f.FQN != `\Lib\pattern` {
		t.Fatalf("namespaced function not preferred: %v", f)
	}
	if f, ok := table.LookupFunction(&ast.Call{Name: "HELPER", Namespace: "Lib"}); !ok || f.FQN != `\helper` {
		t.Fatalf("global fallback failed: %v", f)
	}
	if _, ok := table.LookupFunction(&ast.Call{Name: "missing"}); ok {
		t.Fatalf("unexpected match for unknown function")
	}
}
