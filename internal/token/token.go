package token

import (
	"pcrelint/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, TemplateLit, ShellLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsNameLike reports whether the token may serve as a member or constant
// name: identifiers and reserved words both qualify after '->' and '::'.
func (t Token) IsNameLike() bool { return t.Kind == Ident || t.Kind.IsKeyword() }

// DocComment returns the last doc block among the leading trivia, if any.
func (t Token) DocComment() (Trivia, bool) {
	for i := len(t.Leading) - 1; i >= 0; i-- {
		if t.Leading[i].Kind == TriviaDocBlock {
			return t.Leading[i], true
		}
	}
	return Trivia{}, false
}
