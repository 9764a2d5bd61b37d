package lexer

import (
	"pcrelint/internal/diag"
	"pcrelint/internal/token"
)

// collectLeadingTrivia gathers the trivia before a significant token.
//   - runs of ' ', '\t' coalesce into one TriviaSpace
//   - runs of line breaks coalesce into one TriviaNewline
//   - // and # up to the line end or "?>" -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment, /** ... */ -> TriviaDocBlock
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\v' || b == '\f':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\v' && b2 != '\f' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue

		case b == '\n' || b == '\r':
			for lx.cursor.Peek() == '\n' || lx.cursor.Peek() == '\r' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue

		case b == '#' && lx.cursor.PeekAt(1) != '[':
			lx.scanLineComment(start)
			continue

		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.scanLineComment(start)
			continue

		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment(start)
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.text(start),
	})
}

// A line comment stops before "?>" so the close tag is still seen.
func (lx *Lexer) scanLineComment(start Mark) {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' || (b == '?' && lx.cursor.PeekAt(1) == '>') {
			break
		}
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaLineComment, start)
}

func (lx *Lexer) scanBlockComment(start Mark) {
	lx.cursor.BumpN(2)
	kind := token.TriviaBlockComment
	if lx.cursor.Peek() == '*' && isSpaceByte(lx.cursor.PeekAt(1)) {
		kind = token.TriviaDocBlock
	}
	closed := false
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.BumpN(2)
			closed = true
			break
		}
		lx.cursor.Bump()
	}
	if !closed {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(kind, start)
}
