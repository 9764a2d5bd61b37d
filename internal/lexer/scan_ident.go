package lexer

import (
	"strings"

	"pcrelint/internal/token"
)

// scanIdentOrKeyword scans a possibly qualified name (Foo\Bar, \strlen,
// namespace\f). Only unqualified names are looked up as keywords, ignoring case.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	qualified := false
	for {
		if lx.cursor.Peek() == '\\' {
			if !isIdentStartByte(lx.cursor.PeekAt(1)) {
				// group use prefix: App\{Foo, Bar}
				if lx.cursor.PeekAt(1) == '{' && lx.cursor.Off > uint32(start) {
					lx.cursor.Bump()
					qualified = true
				}
				break
			}
			qualified = true
			lx.cursor.Bump()
		}
		if !isIdentStartByte(lx.cursor.Peek()) {
			break
		}
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Peek() != '\\' {
			break
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(start)

	if !qualified {
		if k, ok := token.LookupKeyword(text); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

var castTypes = map[string]struct{}{
	"int": {}, "integer": {}, "bool": {}, "boolean": {}, "float": {}, "double": {},
	"real": {}, "string": {}, "binary": {}, "array": {}, "object": {}, "unset": {},
}

// tryScanCast recognises "(int)", "( string )" and friends.
func (lx *Lexer) tryScanCast() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '('
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
	word := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) && lx.cursor.Peek() < utf8RuneSelf {
		lx.cursor.Bump()
	}
	name := strings.ToLower(lx.text(word))
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
	if _, ok := castTypes[name]; !ok || !lx.cursor.Eat(')') {
		lx.cursor.Reset(start)
		return token.Token{}, false
	}
	return token.Token{Kind: token.Cast, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}, true
}

// CastType returns the normalized target type of a Cast token text.
func CastType(text string) string {
	name := strings.ToLower(strings.TrimSpace(strings.Trim(text, "()")))
	switch name {
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "double", "real":
		return "float"
	case "binary":
		return "string"
	}
	return name
}
