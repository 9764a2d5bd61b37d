package pcre

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Pattern
		ok   bool
	}{
		{"slashes", "/abc/i", Pattern{Body: "abc", Modifiers: "i", Grammar: GrammarSymmetric, Open: '/', Close: '/'}, true},
		{"hash keeps slash", "#a/b#", Pattern{Body: "a/b", Grammar: GrammarSymmetric, Open: '#', Close: '#'}, true},
		{"last delimiter wins", "/a/b/", Pattern{Body: "a/b", Grammar: GrammarSymmetric, Open: '/', Close: '/'}, true},
		{"letters after inner delimiter", "/a/bc", Pattern{Body: "a", Modifiers: "bc", Grammar: GrammarSymmetric, Open: '/', Close: '/'}, true},
		{"braces", "{foo}x", Pattern{Body: "foo", Modifiers: "x", Grammar: GrammarBrace, Open: '{', Close: '}'}, true},
		{"brace inside", "{a}b}", Pattern{Body: "a}b", Grammar: GrammarBrace, Open: '{', Close: '}'}, true},
		{"final newline", "~x~\n", Pattern{Body: "x", Grammar: GrammarSymmetric, Open: '~', Close: '~'}, true},
		{"multibyte delimiter", "§a§u", Pattern{Body: "a", Modifiers: "u", Grammar: GrammarSymmetric, Open: '§', Close: '§'}, true},
		{"line break in body", "/a\nb/", Pattern{}, false},
		{"line break delimiter", "\nabc\n", Pattern{Body: "abc", Grammar: GrammarSymmetric, Open: '\n', Close: '\n'}, true},
		{"line break delimiter then final break", "\nabc\n\n", Pattern{Body: "abc", Grammar: GrammarSymmetric, Open: '\n', Close: '\n'}, true},
		{"modifiers then final break", "/abc/i\r\n", Pattern{Body: "abc", Modifiers: "i", Grammar: GrammarSymmetric, Open: '/', Close: '/'}, true},
		{"shorter single line body", "xa\nbxcx", Pattern{}, false},
		{"letter delimiter skips broken body", "aba\nca", Pattern{}, false},
		{"brace with final break", "{a}x\n", Pattern{Body: "a", Modifiers: "x", Grammar: GrammarBrace, Open: '{', Close: '}'}, true},
		{"brace line break in body", "{a\n}", Pattern{}, false},
		{"no closing delimiter", "abc", Pattern{}, false},
		{"digit modifier", "/abc/1", Pattern{}, false},
		{"brackets", "(abc)", Pattern{}, false},
		{"lone delimiter", "/", Pattern{}, false},
		{"empty", "", Pattern{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.in)
			if ok != tt.ok {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Extract(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestPatternStringRoundTrip(t *testing.T) {
	for _, in := range []string{"/abc/i", "#a/b#", "{foo}x", "~^\\d+$~D"} {
		p, ok := Extract(in)
		if !ok {
			t.Fatalf("Extract(%q) failed", in)
		}
		if got := p.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestModifiersHas(t *testing.T) {
	m := Modifiers("imsx")
	if !m.Has('s') || m.Has('u') {
		t.Fatalf("Has mismatch for %q", m)
	}
}
