package token

import "pcrelint/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment  // // ... or # ...
	TriviaBlockComment // /* ... */
	TriviaDocBlock     // /** ... */
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	case TriviaDocBlock:
		return "docblock"
	}
	return "trivia?"
}
