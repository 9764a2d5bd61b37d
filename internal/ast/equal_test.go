package ast

import (
	"context"
	"errors"
	"testing"

	"pcrelint/internal/token"
)

func str(raw, value string) *StringLit {
	return &StringLit{Raw: raw, Value: value}
}

func variable(name string) *Variable { return &Variable{Name: name} }

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Expr
		want bool
	}{
		{"same raw string", str(`'/a/'`, "/a/"), str(`'/a/'`, "/a/"), true},
		{"same value different quotes", str(`'/a/'`, "/a/"), str(`"/a/"`, "/a/"), true},
		{"interpolated strings compare raw", &StringLit{Raw: `"$a"`, Value: "$a", Interp: []Interp{{Name: "$a"}}}, str(`'$a'`, "$a"), false},
		{"variables by name", variable("x"), variable("x"), true},
		{"different variables", variable("x"), variable("y"), false},
		{"parentheses ignored", &Paren{X: variable("x")}, variable("x"), true},
		{"caseless constants", &ConstFetch{Name: "NULL"}, &ConstFetch{Name: "null", Namespace: "App"}, true},
		{"constants respect namespace", &ConstFetch{Name: "FOO", Namespace: "A"}, &ConstFetch{Name: "FOO", Namespace: "B"}, false},
		{
			"binary structure",
			&Binary{Op: token.Dot, Left: variable("a"), Right: str(`'x'`, "x")},
			&Binary{Op: token.Dot, Left: variable("a"), Right: str(`'x'`, "x")},
			true,
		},
		{
			"binary operator differs",
			&Binary{Op: token.Dot, Left: variable("a"), Right: variable("b")},
			&Binary{Op: token.Plus, Left: variable("a"), Right: variable("b")},
			false,
		},
		{
			"calls ignore name case",
			&Call{Name: "Trim", Args: []Arg{{Value: variable("s")}}},
			&Call{Name: "trim", Args: []Arg{{Value: variable("s")}}},
			true,
		},
		{
			"array access",
			&ArrayAccess{Container: variable("m"), Index: &NumberLit{Raw: "1"}},
			&ArrayAccess{Container: variable("m"), Index: &NumberLit{Raw: "1"}},
			true,
		},
		{"closures never equal", &Closure{}, &Closure{}, false},
		{"different node types", variable("x"), str(`'x'`, "x"), false},
		{"nil pair", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equal(context.Background(), tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualRecoversPanics(t *testing.T) {
	var a, b *Call
	got, err := Equal(context.Background(), a, b)
	if err != nil || got {
		t.Fatalf("expected (false, nil) after a recovered panic, got (%v, %v)", got, err)
	}
}

func TestEqualCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Equal(ctx, variable("x"), variable("x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
