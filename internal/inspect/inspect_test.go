package inspect

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/parser"
	"pcrelint/internal/sema"
	"pcrelint/internal/source"
	"pcrelint/internal/symbols"
	"pcrelint/internal/trace"
)

type finding struct {
	Code string
	Msg  string
}

// analyze indexes lib.php (when given) and main.php, runs every inspector
// over main.php and returns the findings in report order.
func analyze(t *testing.T, main, lib string) []finding {
	t.Helper()
	fs := source.NewFileSet()
	table := symbols.NewTable()
	parse := func(name, src string) (*ast.File, source.FileID) {
		id := fs.AddVirtual(name, []byte(src))
		bag := diag.NewBag(20)
		file := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			t.Fatalf("%s: unexpected parse errors: %v", name, bag.Items())
		}
		table.AddFile(file)
		return file, id
	}
	if lib != "" {
		parse("lib.php", lib)
	}
	file, id := parse("main.php", main)
	res := sema.NewResolver(table, fs.Get(id), file)

	var got []finding
	r := diag.ReporterFunc(func(code diag.Code, _ diag.Severity, _ source.Span, msg string, _ []diag.Note) {
		got = append(got, finding{code.ID(), msg})
	})
	err := Walk(context.Background(), file,
		NewRegexInspector(res, r),
		NewInclusionInspector(res, r),
		NewOffsetInspector(res, r),
	)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return got
}

func TestRegexInspector(t *testing.T) {
	tests := []struct {
		name string
		src  string
		lib  string
		want []finding
	}{
		{
			name: "anchored literal",
			src:  `<?php preg_match('/^hello/', $s);`,
			want: []finding{
				{"RGX7006", "'0 === strpos($s, 'hello')' can be used instead."},
				{"RGX7010", "'ll' can be replaced with 'l{2}'"},
			},
		},
		{
			name: "namespaced and upper case",
			src:  `<?php namespace App; PREG_MATCH('/^x/', $s);`,
			want: []finding{{"RGX7006", "'0 === strpos($s, 'x')' can be used instead."}},
		},
		{
			name: "pattern through variable",
			src:  `<?php $re = '/[0-9]+/'; preg_match($re, $s, $m);`,
			want: []finding{{"RGX7009", `'[0-9]+' can be replaced with '\d+'`}},
		},
		{
			name: "evaluated replacement has no plain api",
			src:  `<?php preg_replace('/a/e', 'b', $s);`,
			want: []finding{
				{"RGX7001", "'e' modifier is deprecated since PHP 5.5, use preg_replace_callback() instead."},
			},
		},
		{
			name: "plain api after modifier checks",
			src:  `<?php preg_replace('/a/i', 'b', $s);`,
			want: []finding{
				{"RGX7006", "'str_ireplace('a', 'b', $s)' can be used instead."},
			},
		},
		{
			name: "call shape before body rules",
			src:  `<?php preg_match_all('/a\d\d/', $s);`,
			want: []finding{
				{"RGX7008", "'preg_match(...)' can be used instead (matches are not captured)."},
				{"RGX7010", `'\d\d' can be replaced with '\d{2}'`},
			},
		},
		{
			name: "preg_quote only checks the call",
			src:  `<?php preg_quote('/[0-9]/');`,
			want: []finding{{"RGX7007", "Second parameter should be provided (for proper symbols escaping)."}},
		},
		{
			name: "preg_quote of unknown text",
			src:  `<?php preg_quote($input);`,
		},
		{
			name: "preg_quote of plain text",
			src:  `<?php preg_quote('a.b');`,
		},
		{
			name: "escaped line breaks stay in the pattern",
			src:  `<?php preg_split("/\r\n|\n/i", $s);`,
			want: []finding{{"RGX7005", "'i' modifier is ambiguous here (no a-z in given pattern)."}},
		},
		{
			name: "escaped line break in plain text",
			src:  `<?php preg_match("/foo\n/i", $s);`,
			want: []finding{
				{"RGX7006", `'false !== stripos($s, "foo\n")' can be used instead.`},
				{"RGX7010", "'oo' can be replaced with 'o{2}'"},
			},
		},
		{
			name: "physical line break ends the pattern",
			src:  "<?php preg_match('/[0-9]\n/', $s);",
		},
		{
			name: "interpolated pattern",
			src:  `<?php preg_match("/$x[0-9]/", $s);`,
		},
		{
			name: "pattern from another file",
			src:  `<?php preg_match(\Lib\RE, $s, $m);`,
			lib:  `<?php namespace Lib; const RE = '/[0-9]/';`,
		},
		{
			name: "unresolvable pattern",
			src:  `<?php preg_match($re, $s);`,
		},
		{
			name: "not a pattern function",
			src:  `<?php str_replace('/[0-9]/', '', $s);`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, tt.src, tt.lib)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInclusionInspector(t *testing.T) {
	const msg = "This relies on include_path and not guaranteed to load the right file. " +
		"Concatenate with __DIR__ or use namespaces + class loading instead."
	tests := []struct {
		name string
		src  string
		want []finding
	}{
		{"bare path", `<?php include 'config.php';`, []finding{{"SEC8001", msg}}},
		{"constant path", `<?php const CFG = 'a.php'; require CFG;`, []finding{{"SEC8001", msg}}},
		{"dir relative", `<?php require_once __DIR__ . '/config.php';`, nil},
		{"variable", `<?php include $path;`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, tt.src, "")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOffsetInspector(t *testing.T) {
	const classes = `<?php
class Bag implements \ArrayAccess {
    public function offsetGet(int $k) { return null; }
}
class Magic {
    public function __get($name) { return null; }
}
class Plain {}
class Storage extends \ArrayObject {}
`
	tests := []struct {
		name string
		src  string
		want []finding
	}{
		{
			name: "scalar container",
			src:  `<?php function f(int $i) { return $i[0]; }`,
			want: []finding{{"SEM3001", "'$i' may not support offset operations (or its type not annotated properly: [int])."}},
		},
		{
			name: "float index",
			src:  `<?php function f(array $a, float $k) { return $a[$k]; }`,
			want: []finding{{"SEM3002", "Resolved index type ([float]) is incompatible with possible [int, string]. Probably just proper type hinting needed."}},
		},
		{
			name: "int index",
			src:  `<?php function f(array $a, int $k) { return $a[$k]; }`,
		},
		{
			name: "nullable array",
			src:  `<?php function f(?array $a) { return $a['x']; }`,
		},
		{
			name: "untyped container",
			src:  `<?php function f($a) { return $a[1]; }`,
		},
		{
			name: "foreach key pair",
			src:  `<?php function f(string|int $a) { return $a[1]; }`,
		},
		{
			name: "typed offsetGet",
			src:  `<?php function f(Bag $b, string $k) { return $b[$k]; }`,
			want: []finding{{"SEM3002", "Resolved index type ([string]) is incompatible with possible [int]. Probably just proper type hinting needed."}},
		},
		{
			name: "magic accessors",
			src:  `<?php function f(Magic $m, bool $k) { return $m[$k]; }`,
			want: []finding{{"SEM3002", "Resolved index type ([bool]) is incompatible with possible [int, string]. Probably just proper type hinting needed."}},
		},
		{
			name: "class without offsets",
			src:  `<?php function f(Plain $p) { return $p[0]; }`,
			want: []finding{{"SEM3001", `'$p' may not support offset operations (or its type not annotated properly: [\Plain]).`}},
		},
		{
			name: "unknown class",
			src:  `<?php function f(\Unknown $u) { return $u[0]; }`,
		},
		{
			name: "builtin array access",
			src:  `<?php function f(\ArrayObject $o, float $k) { return $o[$k]; }`,
		},
		{
			name: "extends builtin",
			src:  `<?php function f(Storage $s, float $k) { return $s[$k]; }`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, tt.src, classes)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDisallowedIndexTypes(t *testing.T) {
	tests := []struct {
		name    string
		index   []string
		allowed []string
		want    []string
	}{
		{"allowed", []string{"int"}, []string{"int", "string"}, nil},
		{"mixed and null pass", []string{"mixed", "null"}, []string{"int"}, nil},
		{"objects allowed", []string{`\Key`}, []string{"object"}, nil},
		{"anything allowed", []string{"float", "bool"}, []string{"mixed"}, nil},
		{"rejected", []string{"float", "int"}, []string{"int", "string"}, []string{"float"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := disallowedIndexTypes(sema.NewTypeSet(tt.index...), sema.NewTypeSet(tt.allowed...))
			if diff := cmp.Diff(tt.want, got.Names(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type failing struct{ Base }

var errStop = errors.New("stop")

func (failing) VisitInclude(context.Context, *ast.Include) error { return errStop }

func TestWalkStopsOnError(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.php", []byte(`<?php include 'a.php'; include 'b.php';`))
	file := parser.ParseFile(fs.Get(id), parser.Options{})

	calls := 0
	counter := diag.ReporterFunc(func(diag.Code, diag.Severity, source.Span, string, []diag.Note) { calls++ })
	res := sema.NewResolver(nil, fs.Get(id), file)
	err := Walk(context.Background(), file, failing{}, NewInclusionInspector(res, counter))
	if !errors.Is(err, errStop) {
		t.Fatalf("Walk error = %v, want errStop", err)
	}
	if calls != 0 {
		t.Fatalf("inspectors after the failing one ran %d times", calls)
	}
}

func TestWalkTracesNodes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.php", []byte(`<?php preg_match('/a/', $s); include 'x.php';`))
	file := parser.ParseFile(fs.Get(id), parser.Options{})

	ring := trace.NewRingTracer(16, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if err := Walk(ctx, file, Base{}); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	var kinds []trace.Scope
	for _, ev := range ring.Snapshot() {
		if ev.Name == "inspect" {
			kinds = append(kinds, ev.Scope)
		}
	}
	if diff := cmp.Diff([]trace.Scope{trace.ScopeNode, trace.ScopeNode}, kinds); diff != "" {
		t.Fatalf("node points (-want +got):\n%s", diff)
	}

	quiet := trace.NewRingTracer(16, trace.LevelDetail)
	if err := Walk(trace.WithTracer(context.Background(), quiet), file, Base{}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if n := len(quiet.Snapshot()); n != 0 {
		t.Fatalf("detail level recorded %d node events", n)
	}
}
