package parser

import (
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.InlineHTML:
		p.advance()
		return &ast.InlineHTML{Span: tok.Span}
	case token.OpenTag, token.CloseTag:
		p.advance()
		return nil
	case token.OpenTagEcho:
		p.advance()
		args := p.parseExprList()
		p.endStmt()
		return &ast.Echo{Span: p.spanFrom(start), Args: args}
	case token.Semicolon:
		p.advance()
		return &ast.Nop{Span: tok.Span}
	case token.LBrace:
		body := p.parseBraceBody()
		return &ast.Block{Span: p.spanFrom(start), Stmts: body}
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwTry:
		return p.parseTry()
	case token.KwReturn:
		p.advance()
		var x ast.Expr
		if p.startsExpr() {
			x = p.parseExpr()
		}
		p.endStmt()
		return &ast.Return{Span: p.spanFrom(start), X: x}
	case token.KwBreak, token.KwContinue:
		p.advance()
		p.eat(token.IntLit)
		p.endStmt()
		return &ast.Jump{Span: p.spanFrom(start), Kind: tok.Kind}
	case token.KwEcho:
		p.advance()
		args := p.parseExprList()
		p.endStmt()
		return &ast.Echo{Span: p.spanFrom(start), Args: args}
	case token.KwThrow:
		p.advance()
		x := p.parseExpr()
		p.endStmt()
		return &ast.Throw{Span: p.spanFrom(start), X: x}
	case token.KwGlobal:
		return p.parseGlobal()
	case token.KwStatic:
		if p.peekN(1).Kind == token.Variable {
			return p.parseStaticVars()
		}
	case token.KwUnset:
		p.advance()
		var args []ast.Expr
		for _, a := range p.parseArgs() {
			args = append(args, a.Value)
		}
		p.endStmt()
		return &ast.Unset{Span: p.spanFrom(start), Args: args}
	case token.KwFunction:
		next := p.peekN(1)
		if next.Kind == token.Amp {
			next = p.peekN(2)
		}
		if next.IsNameLike() {
			return p.parseFuncDecl()
		}
	case token.KwAbstract, token.KwFinal, token.KwClass, token.KwInterface, token.KwTrait:
		return p.parseClassDecl()
	case token.KwReadonly:
		if k := p.peekN(1).Kind; k == token.KwClass || k == token.KwFinal || k == token.KwAbstract {
			return p.parseClassDecl()
		}
	case token.KwEnum:
		if p.peekN(1).Kind == token.Ident {
			return p.parseClassDecl()
		}
	case token.KwNamespace:
		if k := p.peekN(1).Kind; k == token.Ident || k == token.LBrace {
			return p.parseNamespace()
		}
	case token.KwUse:
		return p.parseUse()
	case token.KwConst:
		return p.parseConstDecl()
	case token.KwDeclare:
		return p.parseDeclare()
	case token.KwGoto:
		p.advance()
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected label after goto")
		p.endStmt()
		return &ast.Nop{Span: p.spanFrom(start)}
	case token.AttrOpen:
		p.skipAttributes()
		return p.parseStmt()
	case token.Ident:
		if strings.EqualFold(tok.Text, "__halt_compiler") {
			p.halted = true
			return nil
		}
		if p.peekN(1).Kind == token.Colon {
			p.advance()
			p.advance()
			return &ast.Nop{Span: p.spanFrom(start)}
		}
	}

	x := p.parseExpr()
	p.endStmt()
	return &ast.ExprStmt{Span: p.spanFrom(start), X: x}
}

// parseExprList reads comma-separated expressions up to a terminator.
func (p *Parser) parseExprList() []ast.Expr {
	var out []ast.Expr
	for p.startsExpr() {
		before := p.pos
		out = append(out, p.parseExpr())
		if !p.eat(token.Comma) || p.pos == before {
			break
		}
	}
	return out
}

func (p *Parser) parseBraceBody() []ast.Stmt {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return nil
	}
	body := p.parseStmtsUntil(token.RBrace)
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	return body
}

// parseStmtsUntil parses statements until one of the stop tokens or EOF.
func (p *Parser) parseStmtsUntil(stops ...token.Kind) []ast.Stmt {
	var out []ast.Stmt
	for !p.at(token.EOF) && !p.atAny(stops...) && !p.halted {
		before := p.pos
		if st := p.parseStmt(); st != nil {
			out = append(out, st)
		}
		if p.pos == before {
			p.advance()
		}
	}
	return out
}

// parseBody reads the body of a control statement: a single statement or a
// block, flattened to its statements.
func (p *Parser) parseBody() []ast.Stmt {
	st := p.parseStmt()
	switch st := st.(type) {
	case nil:
		return nil
	case *ast.Block:
		return st.Stmts
	default:
		return []ast.Stmt{st}
	}
}

// parseAltBody handles "while (...): ... endwhile;" style bodies when the
// next token is ':' and plain bodies otherwise.
func (p *Parser) parseAltBody(end token.Kind) []ast.Stmt {
	if !p.eat(token.Colon) {
		return p.parseBody()
	}
	body := p.parseStmtsUntil(end)
	p.expect(end, diag.SynUnexpectedToken, "expected "+end.String())
	p.endStmt()
	return body
}

func (p *Parser) parseCond() ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	x := p.parseExpr()
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		p.resyncTo(token.RParen)
	}
	return x
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.advance().Span
	st := &ast.If{Cond: p.parseCond()}

	if p.eat(token.Colon) {
		st.Then = p.parseStmtsUntil(token.KwElseIf, token.KwElse, token.KwEndIf)
		for p.at(token.KwElseIf) {
			p.advance()
			ei := ast.ElseIf{Cond: p.parseCond()}
			p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':'")
			ei.Body = p.parseStmtsUntil(token.KwElseIf, token.KwElse, token.KwEndIf)
			st.ElseIfs = append(st.ElseIfs, ei)
		}
		if p.eat(token.KwElse) {
			p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':'")
			st.Else = p.parseStmtsUntil(token.KwEndIf)
		}
		p.expect(token.KwEndIf, diag.SynUnexpectedToken, "expected endif")
		p.endStmt()
		st.Span = p.spanFrom(start)
		return st
	}

	st.Then = p.parseBody()
	for {
		if p.at(token.KwElseIf) {
			p.advance()
			ei := ast.ElseIf{Cond: p.parseCond()}
			ei.Body = p.parseBody()
			st.ElseIfs = append(st.ElseIfs, ei)
			continue
		}
		if p.at(token.KwElse) {
			p.advance()
			st.Else = p.parseBody()
		}
		break
	}
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance().Span
	st := &ast.While{Cond: p.parseCond()}
	st.Body = p.parseAltBody(token.KwEndWhile)
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.advance().Span
	st := &ast.DoWhile{Body: p.parseBody()}
	p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body")
	st.Cond = p.parseCond()
	p.endStmt()
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance().Span
	st := &ast.For{}
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	st.Init = p.parseExprList()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for")
	st.Cond = p.parseExprList()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for")
	st.Step = p.parseExprList()
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		p.resyncTo(token.RParen)
	}
	st.Body = p.parseAltBody(token.KwEndFor)
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseForeach() ast.Stmt {
	start := p.advance().Span
	st := &ast.Foreach{}
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	st.X = p.parseExpr()
	p.expect(token.KwAs, diag.SynUnexpectedToken, "expected 'as' in foreach")
	st.ByRef = p.eat(token.Amp)
	v := p.parseExpr()
	if p.eat(token.DoubleArrow) {
		st.Key = v
		st.ByRef = p.eat(token.Amp)
		v = p.parseExpr()
	}
	st.Value = v
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		p.resyncTo(token.RParen)
	}
	st.Body = p.parseAltBody(token.KwEndForeach)
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.advance().Span
	st := &ast.Switch{Subject: p.parseCond()}
	end := token.RBrace
	if p.eat(token.Colon) {
		end = token.KwEndSwitch
	} else if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch"); !ok {
		st.Span = p.spanFrom(start)
		return st
	}
	for !p.atAny(end, token.EOF) {
		before := p.pos
		var c ast.Case
		switch {
		case p.eat(token.KwCase):
			c.Cond = p.parseExpr()
		case p.eat(token.KwDefault):
		default:
			p.unexpected()
			p.resync()
			if p.pos == before {
				p.advance()
			}
			continue
		}
		if !p.eat(token.Colon) && !p.eat(token.Semicolon) {
			p.err(diag.SynUnexpectedToken, "expected ':' after case")
		}
		c.Body = p.parseStmtsUntil(token.KwCase, token.KwDefault, end)
		st.Cases = append(st.Cases, c)
	}
	if end == token.RBrace {
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' after switch")
	} else {
		p.expect(token.KwEndSwitch, diag.SynUnexpectedToken, "expected endswitch")
		p.endStmt()
	}
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.advance().Span
	st := &ast.Try{Body: p.parseBraceBody()}
	for p.eat(token.KwCatch) {
		var c ast.Catch
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after catch")
		for p.at(token.Ident) {
			c.Types = append(c.Types, p.names.resolveClass(p.advance().Text))
			if !p.eat(token.Pipe) {
				break
			}
		}
		if v := p.peek(); v.Kind == token.Variable {
			p.advance()
			c.Var = v.Text[1:]
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		c.Body = p.parseBraceBody()
		st.Catches = append(st.Catches, c)
	}
	if p.eat(token.KwFinally) {
		st.Finally = p.parseBraceBody()
	}
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseGlobal() ast.Stmt {
	start := p.advance().Span
	st := &ast.Global{}
	for {
		v, ok := p.expect(token.Variable, diag.SynExpectIdentifier, "expected variable after global")
		if !ok {
			break
		}
		st.Names = append(st.Names, v.Text[1:])
		if !p.eat(token.Comma) {
			break
		}
	}
	p.endStmt()
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseStaticVars() ast.Stmt {
	start := p.advance().Span
	st := &ast.Static{}
	for {
		v, ok := p.expect(token.Variable, diag.SynExpectIdentifier, "expected variable")
		if !ok {
			break
		}
		sv := ast.StaticVar{Name: v.Text[1:]}
		if p.eat(token.Assign) {
			sv.Init = p.parseExpr()
		}
		st.Vars = append(st.Vars, sv)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.endStmt()
	st.Span = p.spanFrom(start)
	return st
}

// parseDeclare skips declare(...) and keeps the statements of its block form.
func (p *Parser) parseDeclare() ast.Stmt {
	start := p.advance().Span
	if p.at(token.LParen) {
		p.skipBalanced()
	}
	switch {
	case p.at(token.LBrace):
		body := p.parseBraceBody()
		return &ast.Block{Span: p.spanFrom(start), Stmts: body}
	case p.eat(token.Colon):
		body := p.parseStmtsUntil(token.KwEndDeclare)
		p.expect(token.KwEndDeclare, diag.SynUnexpectedToken, "expected enddeclare")
		p.endStmt()
		return &ast.Block{Span: p.spanFrom(start), Stmts: body}
	}
	p.endStmt()
	return &ast.Nop{Span: p.spanFrom(start)}
}
