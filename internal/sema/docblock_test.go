package sema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDocTags(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []docTag
	}{
		{
			name: "var without name",
			doc:  "/** @var string */",
			want: []docTag{{Name: "var", Types: []string{"string"}}},
		},
		{
			name: "var with name",
			doc:  "/** @var int|null $count */",
			want: []docTag{{Name: "var", Types: []string{"int", "null"}, Var: "count"}},
		},
		{
			name: "name before type",
			doc:  "/** @var $repo \\App\\Repo */",
			want: []docTag{{Name: "var", Types: []string{"\\App\\Repo"}, Var: "repo"}},
		},
		{
			name: "params and return",
			doc: `/**
			      * Finds things.
			      *
			      * @param array<string, int> $map lookup table
			      * @param string ...$keys
			      * @param-out int $ignored
			      * @return static
			      */`,
			want: []docTag{
				{Name: "param", Types: []string{"array<string, int>"}, Var: "map"},
				{Name: "param", Types: []string{"string"}, Var: "keys"},
				{Name: "return", Types: []string{"static"}},
			},
		},
		{
			name: "tool prefixes",
			doc:  "/** @psalm-param non-empty-string $s\n * @phpstan-return list<int> */",
			want: []docTag{
				{Name: "param", Types: []string{"non-empty-string"}, Var: "s"},
				{Name: "return", Types: []string{"list<int>"}},
			},
		},
		{
			name: "return this",
			doc:  "/** @return $this */",
			want: []docTag{{Name: "return", Types: []string{"$this"}}},
		},
		{
			name: "by reference",
			doc:  "/** @param int[] &$out */",
			want: []docTag{{Name: "param", Types: []string{"int[]"}, Var: "out"}},
		},
		{
			name: "no tags",
			doc:  "/** Just prose. */",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDocTags(tt.doc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseDocTags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocTypeNames(t *testing.T) {
	names := newNameCtx(`App`)
	names.imports["repo"] = `\Lib\Storage\Repo`

	tests := []struct {
		atom string
		want []string
	}{
		{"string", []string{"string"}},
		{"?int", []string{"null", "int"}},
		{"integer", []string{"int"}},
		{"Foo[]", []string{"array"}},
		{"array<int, Foo>", []string{"array"}},
		{"'literal'", []string{"string"}},
		{"42", []string{"int"}},
		{"1.5", []string{"float"}},
		{"array-key", []string{"int", "string"}},
		{"(int|Foo)", []string{"int", `\App\Foo`}},
		{"Repo", []string{`\Lib\Storage\Repo`}},
		{`\Other\Thing`, []string{`\Other\Thing`}},
		{"Closure", []string{`\Closure`}},
		{"callable", []string{"callable"}},
		{"static", []string{`\App\Service`}},
		{"$this", []string{`\App\Service`}},
	}
	for _, tt := range tests {
		t.Run(tt.atom, func(t *testing.T) {
			got := docTypeNames(tt.atom, names, `\App\Service`)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("docTypeNames(%q) mismatch (-want +got):\n%s", tt.atom, diff)
			}
		})
	}
}

func TestDocTypeNamesOutsideClass(t *testing.T) {
	got := docTypeNames("self", newNameCtx(""), "")
	if diff := cmp.Diff([]string{"object"}, got); diff != "" {
		t.Errorf("self outside class (-want +got):\n%s", diff)
	}
}
