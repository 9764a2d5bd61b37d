package lexer

import (
	"pcrelint/internal/diag"
	"pcrelint/internal/token"
)

// scanSingleQuoted scans '...'. Only \' and \\ are escapes; newlines are allowed.
func (lx *Lexer) scanSingleQuoted() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '\\':
			lx.cursor.Bump()
		case '\'':
			return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
		}
	}
	return lx.invalid(start, diag.LexUnterminatedString, "unterminated string literal")
}

// scanDoubleQuoted scans "..." or `...`. Braced interpolations ({$a["k"]})
// may contain the quote character, so they are skipped as a balanced group.
func (lx *Lexer) scanDoubleQuoted(quote byte, kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.BumpN(2)
		case b == quote:
			lx.cursor.Bump()
			return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
		case b == '{' && lx.cursor.PeekAt(1) == '$':
			lx.skipBraced()
		default:
			lx.cursor.Bump()
		}
	}
	return lx.invalid(start, diag.LexUnterminatedString, "unterminated string literal")
}

// skipBraced consumes a {...} group including nested quoted strings.
func (lx *Lexer) skipBraced() {
	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return
			}
		case '\'', '"':
			for !lx.cursor.EOF() {
				c := lx.cursor.Bump()
				if c == '\\' {
					lx.cursor.Bump()
					continue
				}
				if c == b {
					break
				}
			}
		}
	}
}

// scanHeredoc scans <<<LABEL, <<<"LABEL" and <<<'LABEL' (nowdoc) up to the
// closing label, which may be indented.
func (lx *Lexer) scanHeredoc() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(3)
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
	quote := lx.cursor.Peek()
	if quote == '\'' || quote == '"' {
		lx.cursor.Bump()
	} else {
		quote = 0
	}
	labelStart := lx.cursor.Mark()
	if !isIdentStartByte(lx.cursor.Peek()) || isDec(lx.cursor.Peek()) {
		return lx.heredocFallback(start)
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	label := lx.text(labelStart)
	if quote != 0 && !lx.cursor.Eat(quote) {
		return lx.heredocFallback(start)
	}
	if lx.cursor.HasPrefix("\r\n") {
		lx.cursor.BumpN(2)
	} else if !lx.cursor.Eat('\n') {
		return lx.heredocFallback(start)
	}

	kind := token.TemplateLit
	if quote == '\'' {
		kind = token.StringLit
	}

	for !lx.cursor.EOF() {
		lineStart := lx.cursor.Mark()
		for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
			lx.cursor.Bump()
		}
		if lx.cursor.HasPrefix(label) && !isIdentContinueByte(lx.cursor.PeekAt(uint32(len(label)))) {
			lx.cursor.BumpN(len(label))
			return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
		}
		lx.cursor.Reset(lineStart)
		for !lx.cursor.EOF() && lx.cursor.Bump() != '\n' {
		}
	}
	return lx.invalid(start, diag.LexUnterminatedHeredoc, "unterminated heredoc")
}

func (lx *Lexer) heredocFallback(start Mark) token.Token {
	lx.cursor.Reset(start)
	return lx.scanOperatorOrPunct()
}
