package parser

import (
	"slices"

	"fortio.org/safecast"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/lexer"
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint // 0 means unlimited
	// StartInPHP parses a snippet as if it followed "<?php".
	StartInPHP bool
}

// Parser holds the state for one file.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	opts     Options
	errors   uint
	lastSpan source.Span // span of the last consumed token
	docs     []ast.Doc
	names    nameScope
	halted   bool
}

// ParseFile parses one PHP file. It never fails: unreadable input is
// reported through opts.Reporter and skipped.
func ParseFile(file *source.File, opts Options) *ast.File {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter, StartInPHP: opts.StartInPHP})
	p := &Parser{
		file:  file,
		toks:  lx.All(),
		opts:  opts,
		names: newNameScope(),
	}
	p.collectDocs()

	out := &ast.File{ID: file.ID, Docs: p.docs}
	for !p.at(token.EOF) && !p.halted {
		before := p.pos
		if st := p.parseStmt(); st != nil {
			out.Stmts = append(out.Stmts, st)
		}
		if p.pos == before {
			p.advance()
		}
	}
	if end, err := safecast.Conv[uint32](len(file.Content)); err == nil {
		out.Span = source.Span{File: file.ID, Start: 0, End: end}
	}
	return out
}

func (p *Parser) collectDocs() {
	for _, tok := range p.toks {
		for _, tr := range tok.Leading {
			if tr.Kind == token.TriviaDocBlock {
				p.docs = append(p.docs, ast.Doc{Span: tr.Span, Text: tr.Text})
			}
		}
	}
}

func (p *Parser) peek() token.Token { return p.peekN(0) }

// peekN looks n tokens ahead; past the end it returns the EOF token.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// spanFrom covers from start to the end of the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start
	}
	return source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
}

// diagSpan points at the next token, or just past the last one at EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.opts.Reporter == nil || (p.opts.MaxErrors > 0 && p.errors > p.opts.MaxErrors) {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

func (p *Parser) unexpected() {
	tok := p.peek()
	text := tok.Text
	if tok.Kind == token.EOF {
		text = "end of file"
	}
	p.report(diag.SynUnexpectedToken, p.diagSpan(), "unexpected \""+text+"\"")
}

// endStmt accepts ';', a close tag or EOF as a statement terminator.
func (p *Parser) endStmt() {
	switch p.peek().Kind {
	case token.Semicolon, token.CloseTag:
		p.advance()
	case token.EOF:
	default:
		p.err(diag.SynExpectSemicolon, "expected ';'")
		p.resync()
	}
}

// resync skips to just after the next ';' or before the next '}' at the
// current nesting depth.
func (p *Parser) resync() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen, token.LBracket, token.LBrace, token.AttrOpen:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon, token.CloseTag:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// skipBalanced consumes a bracketed group starting at the current opener.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LParen, token.LBracket, token.LBrace, token.AttrOpen:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// skipAttributes consumes any #[...] groups.
func (p *Parser) skipAttributes() {
	for p.at(token.AttrOpen) {
		p.skipBalanced()
	}
}

// docBefore returns the docblock attached to the next token.
func (p *Parser) docBefore() string {
	if d, ok := p.peek().DocComment(); ok {
		return d.Text
	}
	return ""
}
