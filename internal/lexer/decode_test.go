package lexer_test

import (
	"testing"

	"pcrelint/internal/lexer"
)

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		value   string
		interps []string
	}{
		{"single keeps unknown escapes", `'/\d+\/x/'`, `/\d+\/x/`, nil},
		{"single quote escapes", `'it\'s \\ ok'`, `it's \ ok`, nil},
		{"double escapes", `"a\tb\n\x41\101\u{1F600}\$"`, "a\tb\nAA\U0001F600$", nil},
		{"double unknown escape", `"/\d+/"`, `/\d+/`, nil},
		{"double quote", `"say \"hi\""`, `say "hi"`, nil},
		{"simple var", `"/$re/i"`, `/$re/i`, []string{"$re"}},
		{"array var", `"x $a[0] y"`, `x $a[0] y`, []string{"$a[0]"}},
		{"prop var", `"x $o->p y"`, `x $o->p y`, []string{"$o->p"}},
		{"braced", `"{$a['k']}!"`, `{$a['k']}!`, []string{"$a['k']"}},
		{"dollar brace", `"${name}"`, `${name}`, []string{"name"}},
		{"lone dollar", `"/^\d+$/"`, `/^\d+$/`, nil},
		{"nowdoc", "<<<'EOT'\n  /a$/\n    b\n  EOT", "/a$/\n  b", nil},
		{"heredoc", "<<<EOT\n    x $v\n    \\t\n    EOT", "x $v\n\t", []string{"$v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, _, file := makeTestLexer(tt.input, true)
			tok := lx.Next()
			value, interps := lexer.DecodeString(tok)
			if value != tt.value {
				t.Fatalf("value = %q, want %q", value, tt.value)
			}
			if len(interps) != len(tt.interps) {
				t.Fatalf("interpolations = %v, want %v", interps, tt.interps)
			}
			for i, in := range interps {
				if in.Name != tt.interps[i] {
					t.Errorf("interp %d = %q, want %q", i, in.Name, tt.interps[i])
				}
				if file.Text(in.Span) == "" {
					t.Errorf("interp %d has empty span", i)
				}
			}
		})
	}
}

func TestDecodeInterpolationSpan(t *testing.T) {
	lx, _, file := makeTestLexer(`"ab $x cd"`, true)
	_, interps := lexer.DecodeString(lx.Next())
	if len(interps) != 1 {
		t.Fatalf("interps = %v", interps)
	}
	if got := file.Text(interps[0].Span); got != "$x" {
		t.Fatalf("span text = %q", got)
	}
}
