package lexer

import (
	"pcrelint/internal/diag"
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // pending leading trivia
	inPHP  bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		inPHP:  opts.StartInPHP,
	}
}

// Next returns the next significant token with its Leading trivia.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if !lx.inPHP {
		if lx.cursor.EOF() {
			return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		}
		return lx.scanInlineHTMLOrOpenTag()
	}

	lx.collectLeadingTrivia()

	// trailing trivia is not attached to EOF
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '?' && lx.cursor.HasPrefix("?>"):
		tok = lx.scanCloseTag()

	case ch == '$':
		tok = lx.scanVariable()

	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch == '\\' && isIdentStartByte(lx.cursor.PeekAt(1)):
		tok = lx.scanIdentOrKeyword()

	case isDec(ch) || (ch == '.' && lx.isNumberAfterDot()):
		tok = lx.scanNumber()

	case ch == '\'':
		tok = lx.scanSingleQuoted()

	case ch == '"':
		tok = lx.scanDoubleQuoted('"', token.TemplateLit)

	case ch == '`':
		tok = lx.scanDoubleQuoted('`', token.ShellLit)

	case ch == '<' && lx.cursor.HasPrefix("<<<"):
		tok = lx.scanHeredoc()

	case ch == '(':
		if cast, ok := lx.tryScanCast(); ok {
			tok = cast
		} else {
			tok = lx.scanOperatorOrPunct()
		}

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer, returning every token including the final EOF.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// scanInlineHTMLOrOpenTag consumes text up to the next open tag. A run of
// text is returned first; the tag itself on the following call.
func (lx *Lexer) scanInlineHTMLOrOpenTag() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '<' && lx.cursor.PeekAt(1) == '?' {
			break
		}
		lx.cursor.Bump()
	}
	if lx.cursor.Off > uint32(start) {
		return token.Token{Kind: token.InlineHTML, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
	}

	kind := token.OpenTag
	switch {
	case lx.cursor.HasPrefixFold("<?php") && (lx.cursor.PeekAt(5) == 0 || isSpaceByte(lx.cursor.PeekAt(5))):
		lx.cursor.BumpN(5)
		// the open tag owns one whitespace character
		if lx.cursor.HasPrefix("\r\n") {
			lx.cursor.BumpN(2)
		} else if isSpaceByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	case lx.cursor.HasPrefix("<?="):
		lx.cursor.BumpN(3)
		kind = token.OpenTagEcho
	default:
		lx.cursor.BumpN(2)
	}
	lx.inPHP = true
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
}

func (lx *Lexer) scanCloseTag() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(2)
	if lx.cursor.HasPrefix("\r\n") {
		lx.cursor.BumpN(2)
	} else {
		lx.cursor.Eat('\n')
	}
	lx.inPHP = false
	return token.Token{Kind: token.CloseTag, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
}

func (lx *Lexer) scanVariable() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	if !isIdentStartByte(lx.cursor.Peek()) {
		return token.Token{Kind: token.Dollar, Span: lx.cursor.SpanFrom(start), Text: "$"}
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return token.Token{Kind: token.Variable, Span: lx.cursor.SpanFrom(start), Text: lx.text(start)}
}

func (lx *Lexer) invalid(start Mark, code diag.Code, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(start)}
}
