package sema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"integer":   "int",
		"Boolean":   "bool",
		"false":     "bool",
		"double":    "float",
		"STRING":    "string",
		`\array`:    "array",
		"Foo":       `\Foo`,
		`\\App\Foo`: `\App\Foo`,
		"  ":        "",
	}
	for in, want := range tests {
		if got := NormalizeType(in); got != want {
			t.Errorf("NormalizeType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTypeSet(t *testing.T) {
	s := NewTypeSet("integer", "Foo", "string")
	if !s.Has("int") || !s.Has(`\Foo`) {
		t.Fatalf("missing members: %s", s)
	}
	if got, want := s.String(), `[\Foo, int, string]`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{`\Foo`}, s.Classes()); diff != "" {
		t.Errorf("Classes() mismatch (-want +got):\n%s", diff)
	}

	clone := s.Clone()
	clone.Remove("string")
	if !s.Has("string") {
		t.Error("Remove on a clone changed the original")
	}

	other := NewTypeSet("null")
	s.Union(other)
	if s.Len() != 4 {
		t.Errorf("Len() = %d after union, want 4", s.Len())
	}
	if !NewTypeSet().Empty() {
		t.Error("new set should be empty")
	}
}
