package parser

import (
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/lexer"
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

func (p *Parser) parseExpr() ast.Expr { return p.parseExprPrec(precLowest) }

func (p *Parser) parseExprPrec(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		tok := p.peek()
		start := ast.SpanOf(left)

		// PHP accepts an assignment wherever its target can stand, so
		// "!$a = f()" negates the assignment.
		if tok.Kind.IsAssignOp() && isAssignable(left) {
			p.advance()
			byRef := tok.Kind == token.Assign && p.eat(token.Amp)
			value := p.parseExprPrec(precAssign)
			left = &ast.Assign{Span: p.spanFrom(start), Op: tok.Kind, Target: left, Value: value, ByRef: byRef}
			continue
		}

		if tok.Kind == token.Question {
			if minPrec > precTernary {
				return left
			}
			p.advance()
			t := &ast.Ternary{Cond: left}
			if !p.eat(token.Colon) {
				t.Then = p.parseExpr()
				p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in ternary expression")
			}
			t.Else = p.parseExprPrec(precTernary + 1)
			t.Span = p.spanFrom(start)
			left = t
			continue
		}

		info, ok := binaryPrec(tok.Kind)
		if !ok || info.prec < minPrec {
			return left
		}
		p.advance()
		var right ast.Expr
		if tok.Kind == token.KwInstanceof {
			right = p.parseClassRef()
		} else {
			next := info.prec + 1
			if info.rightAssoc {
				next = info.prec
			}
			right = p.parseExprPrec(next)
		}
		left = &ast.Binary{Span: p.spanFrom(start), Op: tok.Kind, Left: left, Right: right}
	}
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Variable, *ast.ArrayAccess, *ast.PropertyFetch, *ast.StaticPropertyFetch, *ast.ArrayLit:
		return true
	}
	return false
}

// parseClassRef reads the right side of instanceof.
func (p *Parser) parseClassRef() ast.Expr {
	tok := p.peek()
	if tok.Kind == token.Ident || tok.Kind == token.KwStatic {
		p.advance()
		name := strings.TrimPrefix(p.names.resolveClass(tok.Text), "\\")
		return &ast.ConstFetch{Span: tok.Span, Name: name, FullyQualified: true}
	}
	return p.parseExprPrec(precUnary)
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.Bang:
		p.advance()
		x := p.parseExprPrec(precInstanceof)
		return &ast.Unary{Span: p.spanFrom(start), Op: tok.Kind, X: x}
	case token.Minus, token.Plus, token.Tilde:
		p.advance()
		x := p.parseExprPrec(precPow)
		return &ast.Unary{Span: p.spanFrom(start), Op: tok.Kind, X: x}
	case token.At:
		p.advance()
		x := p.parseExprPrec(precUnary)
		return &ast.Unary{Span: p.spanFrom(start), Op: tok.Kind, X: x}
	case token.Inc, token.Dec:
		p.advance()
		x := p.parseUnary()
		return &ast.Unary{Span: p.spanFrom(start), Op: tok.Kind, X: x}
	case token.Amp:
		// stray reference marker, e.g. inside foreach targets
		p.advance()
		return p.parseUnary()
	case token.Cast:
		p.advance()
		x := p.parseExprPrec(precUnary)
		return &ast.Cast{Span: p.spanFrom(start), Type: lexer.CastType(tok.Text), X: x}
	case token.KwNew:
		return p.parsePostfix(p.parseNew())
	case token.KwClone:
		p.advance()
		x := p.parseExprPrec(precUnary)
		return &ast.Other{Span: p.spanFrom(start), Kind: "clone", Children: []ast.Expr{x}}
	case token.KwPrint:
		p.advance()
		x := p.parseExprPrec(precAssign)
		return &ast.Other{Span: p.spanFrom(start), Kind: "print", Children: []ast.Expr{x}}
	case token.KwThrow:
		p.advance()
		x := p.parseExprPrec(precAssign)
		return &ast.Other{Span: p.spanFrom(start), Kind: "throw", Children: []ast.Expr{x}}
	case token.KwYield:
		return p.parseYield()
	case token.KwInclude, token.KwIncludeOnce, token.KwRequire, token.KwRequireOnce:
		p.advance()
		arg := p.parseExprPrec(precAssign)
		return &ast.Include{Span: p.spanFrom(start), Kind: tok.Kind, Arg: arg}
	case token.KwFunction, token.KwFn:
		return p.parsePostfix(p.parseClosure(false))
	case token.KwStatic:
		if next := p.peekN(1).Kind; next == token.KwFunction || next == token.KwFn {
			p.advance()
			c := p.parseClosure(true)
			if cl, ok := c.(*ast.Closure); ok {
				cl.Span = p.spanFrom(start)
			}
			return p.parsePostfix(c)
		}
	case token.AttrOpen:
		p.skipAttributes()
		return p.parseUnary()
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parseYield() ast.Expr {
	start := p.advance().Span
	kind := "yield"
	if t := p.peek(); t.Kind == token.Ident && strings.EqualFold(t.Text, "from") {
		p.advance()
		kind = "yield from"
	}
	out := &ast.Other{Kind: kind}
	if p.startsExpr() {
		v := p.parseExprPrec(precTernary)
		out.Children = append(out.Children, v)
		if kind == "yield" && p.eat(token.DoubleArrow) {
			out.Children = append(out.Children, p.parseExprPrec(precTernary))
		}
	}
	out.Span = p.spanFrom(start)
	return out
}

// startsExpr reports whether the next token can begin an expression.
func (p *Parser) startsExpr() bool {
	switch p.peek().Kind {
	case token.Semicolon, token.CloseTag, token.EOF, token.RParen, token.RBracket,
		token.RBrace, token.Comma, token.DoubleArrow, token.Colon:
		return false
	}
	return true
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	start := tok.Span
	switch tok.Kind {
	case token.Variable:
		p.advance()
		return &ast.Variable{Span: tok.Span, Name: tok.Text[1:]}
	case token.Dollar:
		p.advance()
		v := &ast.Variable{}
		if p.eat(token.LBrace) {
			v.Dynamic = p.parseExpr()
			p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
		} else {
			v.Dynamic = p.parsePrimary()
		}
		v.Span = p.spanFrom(start)
		return v
	case token.IntLit, token.FloatLit:
		p.advance()
		return &ast.NumberLit{Span: tok.Span, Raw: tok.Text, Float: tok.Kind == token.FloatLit}
	case token.StringLit, token.TemplateLit, token.ShellLit:
		p.advance()
		return stringLit(tok)
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return &ast.Paren{Span: p.spanFrom(start), X: x}
	case token.LBracket:
		p.advance()
		items := p.parseArrayItems(token.RBracket)
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		return &ast.ArrayLit{Span: p.spanFrom(start), Items: items}
	case token.KwArray, token.KwList:
		if p.peekN(1).Kind == token.LParen {
			p.advance()
			p.advance()
			items := p.parseArrayItems(token.RParen)
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
			return &ast.ArrayLit{Span: p.spanFrom(start), Items: items, List: tok.Kind == token.KwList}
		}
	case token.KwIsset, token.KwEmpty:
		p.advance()
		out := &ast.Other{Kind: strings.ToLower(tok.Text)}
		for _, a := range p.parseArgs() {
			out.Children = append(out.Children, a.Value)
		}
		out.Span = p.spanFrom(start)
		return out
	case token.KwExit:
		p.advance()
		out := &ast.Other{Kind: "exit"}
		if p.at(token.LParen) {
			for _, a := range p.parseArgs() {
				out.Children = append(out.Children, a.Value)
			}
		}
		out.Span = p.spanFrom(start)
		return out
	case token.KwMatch:
		if p.peekN(1).Kind == token.LParen {
			return p.parseMatch()
		}
	case token.KwStatic:
		if p.peekN(1).Kind == token.DoubleColon {
			p.advance()
			return p.parseStaticMember(start, p.names.resolveClass("static"), nil)
		}
	}

	if tok.Kind == token.Ident || isSoftKeyword(tok.Kind) {
		return p.parseNameExpr()
	}

	p.unexpected()
	switch tok.Kind {
	case token.RParen, token.RBracket, token.RBrace, token.Semicolon, token.CloseTag, token.EOF:
	default:
		p.advance()
	}
	return &ast.Bad{Span: start}
}

// isSoftKeyword reports keywords PHP also accepts as plain names.
func isSoftKeyword(k token.Kind) bool {
	switch k {
	case token.KwEnum, token.KwReadonly, token.KwMatch, token.KwArray, token.KwList, token.KwCallable:
		return true
	}
	return false
}

// parseNameExpr handles a bare name: a call, a static member access or a
// constant.
func (p *Parser) parseNameExpr() ast.Expr {
	tok := p.advance()
	switch p.peek().Kind {
	case token.LParen:
		name, resolved := p.names.resolveFunction(tok.Text)
		call := &ast.Call{Name: name, NameSpan: tok.Span}
		if !resolved {
			call.Namespace = p.names.namespace
		}
		call.Args = p.parseArgs()
		call.Span = p.spanFrom(tok.Span)
		return call
	case token.DoubleColon:
		return p.parseStaticMember(tok.Span, p.names.resolveClass(tok.Text), nil)
	}
	name, resolved := p.names.resolveConst(tok.Text)
	c := &ast.ConstFetch{Span: tok.Span, Name: name, FullyQualified: resolved}
	if !resolved {
		c.Namespace = p.names.namespace
	}
	return c
}

func stringLit(tok token.Token) *ast.StringLit {
	value, interps := lexer.DecodeString(tok)
	lit := &ast.StringLit{Span: tok.Span, Raw: tok.Text, Value: value}
	switch {
	case strings.HasPrefix(tok.Text, "<<<"):
		lit.Kind = ast.Heredoc
		if tok.Kind == token.StringLit {
			lit.Kind = ast.Nowdoc
		}
	case tok.Kind == token.ShellLit:
		lit.Kind = ast.ShellExec
	case tok.Kind == token.TemplateLit:
		lit.Kind = ast.DoubleQuoted
	default:
		lit.Kind = ast.SingleQuoted
	}
	for _, in := range interps {
		lit.Interp = append(lit.Interp, ast.Interp{Name: in.Name, Span: in.Span})
	}
	return lit
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		start := ast.SpanOf(x)
		tok := p.peek()
		switch tok.Kind {
		case token.LBracket:
			p.advance()
			var index ast.Expr
			if !p.at(token.RBracket) {
				index = p.parseExpr()
			}
			p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
			x = &ast.ArrayAccess{Span: p.spanFrom(start), Container: x, Index: index}
		case token.Arrow, token.NullsafeArrow:
			p.advance()
			name := p.parseMemberName()
			if p.at(token.LParen) {
				args := p.parseArgs()
				x = &ast.MethodCall{Span: p.spanFrom(start), Object: x, Method: name, NullSafe: tok.Kind == token.NullsafeArrow, Args: args}
			} else {
				x = &ast.PropertyFetch{Span: p.spanFrom(start), Object: x, Name: name, NullSafe: tok.Kind == token.NullsafeArrow}
			}
		case token.DoubleColon:
			x = p.parseStaticMember(start, "", x)
		case token.LParen:
			args := p.parseArgs()
			x = &ast.Call{Span: p.spanFrom(start), Callee: x, Args: args}
		case token.Inc, token.Dec:
			p.advance()
			x = &ast.Unary{Span: p.spanFrom(start), Op: tok.Kind, X: x, Postfix: true}
		default:
			return x
		}
	}
}

// parseMemberName reads the name after '->'. Dynamic names yield "".
func (p *Parser) parseMemberName() string {
	tok := p.peek()
	switch {
	case tok.IsNameLike():
		p.advance()
		return tok.Text
	case tok.Kind == token.Variable || tok.Kind == token.Dollar:
		p.parsePrimary()
		return ""
	case tok.Kind == token.LBrace:
		p.advance()
		p.parseExpr()
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
		return ""
	}
	p.err(diag.SynExpectIdentifier, "expected member name")
	return ""
}

// parseStaticMember parses what follows Class:: with the class given either
// by resolved name or by expression.
func (p *Parser) parseStaticMember(start source.Span, className string, class ast.Expr) ast.Expr {
	p.advance() // '::'
	className = strings.TrimPrefix(className, "\\")
	tok := p.peek()
	switch {
	case tok.Kind == token.Variable:
		p.advance()
		if p.at(token.LParen) {
			args := p.parseArgs()
			return &ast.StaticCall{Span: p.spanFrom(start), ClassName: className, Class: class, Args: args}
		}
		return &ast.StaticPropertyFetch{Span: p.spanFrom(start), ClassName: className, Class: class, Name: tok.Text[1:]}
	case tok.Kind == token.KwClass:
		p.advance()
		return &ast.ClassConstFetch{Span: p.spanFrom(start), ClassName: className, Class: class, Const: "class"}
	case tok.IsNameLike():
		p.advance()
		if p.at(token.LParen) {
			args := p.parseArgs()
			return &ast.StaticCall{Span: p.spanFrom(start), ClassName: className, Class: class, Method: tok.Text, Args: args}
		}
		return &ast.ClassConstFetch{Span: p.spanFrom(start), ClassName: className, Class: class, Const: tok.Text}
	case tok.Kind == token.LBrace:
		p.advance()
		p.parseExpr()
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
		args := p.parseArgs()
		return &ast.StaticCall{Span: p.spanFrom(start), ClassName: className, Class: class, Args: args}
	}
	p.err(diag.SynExpectIdentifier, "expected member name after '::'")
	return &ast.Bad{Span: p.spanFrom(start)}
}

// parseArgs parses a parenthesized argument list. A first-class callable
// "(...)" yields no arguments.
func (p *Parser) parseArgs() []ast.Arg {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil
	}
	if p.peek().Kind == token.Ellipsis && p.peekN(1).Kind == token.RParen {
		p.advance()
		p.advance()
		return nil
	}
	var args []ast.Arg
	for !p.atAny(token.RParen, token.EOF) {
		before := p.pos
		start := p.peek().Span
		var arg ast.Arg
		if p.eat(token.Ellipsis) {
			arg.Spread = true
		} else if p.peek().IsNameLike() && p.peekN(1).Kind == token.Colon {
			arg.Name = p.advance().Text
			p.advance()
		}
		arg.Value = p.parseExpr()
		arg.Span = p.spanFrom(start)
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
		if p.pos == before {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments"); !ok {
		p.resyncTo(token.RParen)
	}
	return args
}

// resyncTo skips forward to and past a closer at the current depth, giving
// up at a statement boundary.
func (p *Parser) resyncTo(closer token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		k := p.peek().Kind
		switch {
		case k == closer && depth == 0:
			p.advance()
			return
		case k == token.Semicolon && depth == 0, k == token.RBrace && depth == 0:
			return
		case k == token.LParen || k == token.LBracket || k == token.LBrace:
			depth++
		case k == token.RParen || k == token.RBracket || k == token.RBrace:
			depth--
		}
		p.advance()
	}
}

func (p *Parser) parseArrayItems(closer token.Kind) []ast.ArrayItem {
	var items []ast.ArrayItem
	for !p.atAny(closer, token.EOF) {
		before := p.pos
		if p.eat(token.Comma) {
			continue // skipped list() slot
		}
		var it ast.ArrayItem
		switch {
		case p.eat(token.Ellipsis):
			it.Spread = true
			it.Value = p.parseExpr()
		case p.eat(token.Amp):
			it.ByRef = true
			it.Value = p.parseExpr()
		default:
			v := p.parseExpr()
			if p.eat(token.DoubleArrow) {
				it.Key = v
				it.ByRef = p.eat(token.Amp)
				v = p.parseExpr()
			}
			it.Value = v
		}
		items = append(items, it)
		if !p.eat(token.Comma) || p.pos == before {
			break
		}
	}
	return items
}

func (p *Parser) parseNew() ast.Expr {
	start := p.advance().Span // new
	n := &ast.New{}
	tok := p.peek()
	switch {
	case tok.Kind == token.KwClass:
		p.advance()
		if p.at(token.LParen) {
			n.Args = p.parseArgs()
		}
		decl := &ast.ClassDecl{Kind: ast.KindClass, Name: "class@anonymous"}
		p.parseClassTail(decl, tok.Span)
		n.Anon = decl
		n.Span = p.spanFrom(start)
		return n
	case tok.Kind == token.Ident || tok.Kind == token.KwStatic:
		p.advance()
		n.ClassName = strings.TrimPrefix(p.names.resolveClass(tok.Text), "\\")
	case tok.Kind == token.LParen:
		p.advance()
		n.Class = p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	default:
		n.Class = p.parseNewClassExpr()
	}
	if p.at(token.LParen) {
		n.Args = p.parseArgs()
	}
	n.Span = p.spanFrom(start)
	return n
}

// parseNewClassExpr reads a dynamic class reference: a variable followed by
// property fetches or index operations, but no calls.
func (p *Parser) parseNewClassExpr() ast.Expr {
	x := p.parsePrimary()
	for {
		start := ast.SpanOf(x)
		switch p.peek().Kind {
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
			x = &ast.ArrayAccess{Span: p.spanFrom(start), Container: x, Index: idx}
		case token.Arrow, token.NullsafeArrow:
			nullsafe := p.advance().Kind == token.NullsafeArrow
			name := p.parseMemberName()
			x = &ast.PropertyFetch{Span: p.spanFrom(start), Object: x, Name: name, NullSafe: nullsafe}
		case token.DoubleColon:
			if p.peekN(1).Kind != token.Variable {
				return x
			}
			p.advance()
			name := p.advance().Text[1:]
			x = &ast.StaticPropertyFetch{Span: p.spanFrom(start), Class: x, Name: name}
		default:
			return x
		}
	}
}

func (p *Parser) parseClosure(static bool) ast.Expr {
	tok := p.advance() // function | fn
	c := &ast.Closure{Static: static}
	p.eat(token.Amp)
	c.Params = p.parseParams()
	if tok.Kind == token.KwFunction && p.eat(token.KwUse) {
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after use")
		for !p.atAny(token.RParen, token.EOF) {
			byRef := p.eat(token.Amp)
			v, ok := p.expect(token.Variable, diag.SynExpectIdentifier, "expected variable in use list")
			if ok {
				c.Uses = append(c.Uses, ast.ClosureUse{Name: v.Text[1:], ByRef: byRef})
			}
			if !p.eat(token.Comma) || !ok {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	}
	if p.eat(token.Colon) {
		c.ReturnType = p.parseType()
	}
	if tok.Kind == token.KwFn {
		p.expect(token.DoubleArrow, diag.SynUnexpectedToken, "expected '=>' in arrow function")
		c.Arrow = p.parseExprPrec(precAssign)
	} else {
		c.Body = p.parseBraceBody()
	}
	c.Span = p.spanFrom(tok.Span)
	return c
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.advance().Span // match
	out := &ast.Other{Kind: "match"}
	p.advance() // (
	out.Children = append(out.Children, p.parseExpr())
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after match subject"); !ok {
		out.Span = p.spanFrom(start)
		return out
	}
	for !p.atAny(token.RBrace, token.EOF) {
		before := p.pos
		if p.eat(token.KwDefault) {
			p.eat(token.Comma)
		} else {
			for !p.atAny(token.DoubleArrow, token.EOF) {
				out.Children = append(out.Children, p.parseExpr())
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		p.expect(token.DoubleArrow, diag.SynUnexpectedToken, "expected '=>' in match arm")
		out.Children = append(out.Children, p.parseExpr())
		if !p.eat(token.Comma) || p.pos == before {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' after match arms")
	out.Span = p.spanFrom(start)
	return out
}

// parseType reads a type hint: ?T, A|B, A&B, (A&B)|null.
func (p *Parser) parseType() *ast.TypeHint {
	start := p.peek().Span
	th := &ast.TypeHint{Nullable: p.eat(token.Question)}
	for {
		switch tok := p.peek(); {
		case tok.Kind == token.LParen:
			p.advance()
			for !p.atAny(token.RParen, token.EOF) {
				if t := p.peek(); t.IsNameLike() {
					p.advance()
					th.Types = append(th.Types, p.names.resolveType(t.Text))
				}
				if !p.eat(token.Amp) {
					break
				}
			}
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' in type")
		case tok.IsNameLike():
			p.advance()
			th.Types = append(th.Types, p.names.resolveType(tok.Text))
		default:
			p.err(diag.SynExpectIdentifier, "expected type name")
		}
		if p.at(token.Pipe) {
			p.advance()
			continue
		}
		// A&B is an intersection, but "T &$x" is a by-reference parameter.
		if p.at(token.Amp) && p.peekN(1).Kind != token.Variable && p.peekN(1).Kind != token.Ellipsis {
			p.advance()
			continue
		}
		break
	}
	th.Span = p.spanFrom(start)
	return th
}
