package lexer

import (
	"pcrelint/internal/token"
)

// scanNumber handles 0, 123, 1_000, 0b101, 0o17, 017, 0x1F, 1.5, .5, 1., 1e-3.
// Integer literals that overflow are still IntLit; the parser does not need
// their value.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			lx.cursor.BumpN(2)
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.number(kind, start)
		case 'b', 'B':
			lx.cursor.BumpN(2)
			for b := lx.cursor.Peek(); b == '0' || b == '1' || b == '_'; b = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			return lx.number(kind, start)
		case 'o', 'O':
			lx.cursor.BumpN(2)
			for isOct(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.number(kind, start)
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// "1." is a float; the dot of ".=" and "..." stays an operator
	if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' && lx.cursor.PeekAt(1) != '=' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		} else {
			// "1e" followed by a name is a number then an identifier
			lx.cursor.Reset(mark)
		}
	}
	return lx.number(kind, start)
}

func (lx *Lexer) number(kind token.Kind, start Mark) token.Token {
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
}
