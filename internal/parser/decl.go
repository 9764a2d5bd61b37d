package parser

import (
	"strings"

	"pcrelint/internal/ast"
	"pcrelint/internal/diag"
	"pcrelint/internal/source"
	"pcrelint/internal/token"
)

func (p *Parser) parseNamespace() ast.Stmt {
	start := p.advance().Span
	st := &ast.Namespace{}
	if p.at(token.Ident) {
		st.Name = strings.Trim(p.advance().Text, "\\")
	}
	p.names.enterNamespace(st.Name)
	if p.at(token.LBrace) {
		st.Braced = true
		st.Body = p.parseBraceBody()
		p.names.enterNamespace("")
	} else {
		p.endStmt()
	}
	st.Span = p.spanFrom(start)
	return st
}

func useKindOf(k token.Kind) (ast.UseKind, bool) {
	switch k {
	case token.KwFunction:
		return ast.UseFunction, true
	case token.KwConst:
		return ast.UseConst, true
	}
	return ast.UseClass, false
}

// parseUse reads an import statement, including the group form
// use App\{Foo, function bar}, and registers the aliases.
func (p *Parser) parseUse() ast.Stmt {
	start := p.advance().Span
	st := &ast.Use{}
	kind, explicit := useKindOf(p.peek().Kind)
	if explicit {
		p.advance()
	}
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after use")
		if !ok {
			p.resync()
			break
		}
		if strings.HasSuffix(name.Text, "\\") && p.at(token.LBrace) {
			prefix := strings.Trim(name.Text, "\\")
			p.advance()
			for !p.atAny(token.RBrace, token.EOF) {
				itemKind := kind
				if k, ok := useKindOf(p.peek().Kind); ok {
					p.advance()
					itemKind = k
				}
				part, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name in group use")
				if !ok {
					break
				}
				st.Items = append(st.Items, p.useItem(prefix+"\\"+part.Text, itemKind))
				if !p.eat(token.Comma) {
					break
				}
			}
			p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' after group use")
		} else {
			st.Items = append(st.Items, p.useItem(name.Text, kind))
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.endStmt()
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) useItem(name string, kind ast.UseKind) ast.UseItem {
	fqn := "\\" + strings.Trim(name, "\\")
	alias := lastSegment(fqn)
	if p.eat(token.KwAs) {
		if t := p.peek(); t.IsNameLike() {
			alias = p.advance().Text
		}
	}
	switch kind {
	case ast.UseFunction:
		p.names.functions[strings.ToLower(alias)] = fqn
	case ast.UseConst:
		p.names.consts[alias] = fqn
	default:
		p.names.classes[strings.ToLower(alias)] = fqn
	}
	return ast.UseItem{Name: fqn, Alias: alias, Kind: kind}
}

func (p *Parser) parseConstDecl() ast.Stmt {
	start := p.advance().Span
	st := &ast.ConstDecl{Items: p.parseConstItems(true)}
	p.endStmt()
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseConstItems(global bool) []ast.ConstItem {
	// typed class constants: const string FOO = ...
	if p.peek().IsNameLike() && p.peekN(1).IsNameLike() {
		p.parseType()
	}
	var items []ast.ConstItem
	for {
		name := p.peek()
		if !name.IsNameLike() {
			p.err(diag.SynExpectIdentifier, "expected constant name")
			break
		}
		p.advance()
		item := ast.ConstItem{Name: name.Text}
		if global {
			item.FQN = p.names.qualify(name.Text)
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after constant name"); ok {
			item.Value = p.parseExpr()
		}
		item.Span = p.spanFrom(name.Span)
		items = append(items, item)
		if !p.eat(token.Comma) {
			break
		}
	}
	return items
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	doc := p.docBefore()
	fn := p.parseFunction(doc)
	fn.FQN = p.names.qualify(fn.Name)
	return fn
}

// parseFunction reads "function name(params): type { body }" starting at the
// function keyword. A ';' in place of the body leaves Body nil.
func (p *Parser) parseFunction(doc string) *ast.FuncDecl {
	start := p.advance().Span // function
	fn := &ast.FuncDecl{Doc: doc, ByRef: p.eat(token.Amp)}
	if name := p.peek(); name.IsNameLike() {
		p.advance()
		fn.Name = name.Text
	} else {
		p.err(diag.SynExpectIdentifier, "expected function name")
	}
	fn.Params = p.parseParams()
	if p.eat(token.Colon) {
		fn.ReturnType = p.parseType()
	}
	if p.at(token.LBrace) {
		fn.Body = p.parseBraceBody()
		if fn.Body == nil {
			fn.Body = []ast.Stmt{}
		}
	} else {
		p.endStmt()
	}
	fn.Span = p.spanFrom(start)
	return fn
}

var paramModifiers = map[token.Kind]bool{
	token.KwPublic: true, token.KwProtected: true, token.KwPrivate: true, token.KwReadonly: true,
}

func (p *Parser) parseParams() []ast.Param {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' before parameters"); !ok {
		return nil
	}
	var params []ast.Param
	for !p.atAny(token.RParen, token.EOF) {
		before := p.pos
		p.skipAttributes()
		start := p.peek().Span
		var prm ast.Param
		for paramModifiers[p.peek().Kind] {
			p.advance()
			prm.Promoted = true
		}
		if k := p.peek().Kind; k != token.Variable && k != token.Amp && k != token.Ellipsis {
			prm.Type = p.parseType()
		}
		prm.ByRef = p.eat(token.Amp)
		prm.Variadic = p.eat(token.Ellipsis)
		if v, ok := p.expect(token.Variable, diag.SynExpectIdentifier, "expected parameter name"); ok {
			prm.Name = v.Text[1:]
		}
		if p.eat(token.Assign) {
			prm.Default = p.parseExpr()
		}
		prm.Span = p.spanFrom(start)
		params = append(params, prm)
		if !p.eat(token.Comma) || p.pos == before {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		p.resyncTo(token.RParen)
	}
	return params
}

func (p *Parser) parseClassDecl() ast.Stmt {
	start := p.peek().Span
	decl := &ast.ClassDecl{Doc: p.docBefore()}
modifiers:
	for {
		switch p.peek().Kind {
		case token.KwAbstract:
			decl.Abstract = true
		case token.KwFinal:
			decl.Final = true
		case token.KwReadonly:
		default:
			break modifiers
		}
		p.advance()
	}
	switch p.advance().Kind {
	case token.KwInterface:
		decl.Kind = ast.KindInterface
	case token.KwTrait:
		decl.Kind = ast.KindTrait
	case token.KwEnum:
		decl.Kind = ast.KindEnum
	case token.KwClass:
		decl.Kind = ast.KindClass
	default:
		p.report(diag.SynUnexpectedToken, p.lastSpan, "expected class, interface, trait or enum")
		p.resync()
		return &ast.BadStmt{Span: p.spanFrom(start)}
	}
	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name"); ok {
		decl.Name = name.Text
		decl.FQN = p.names.qualify(name.Text)
	}
	if decl.Kind == ast.KindEnum && p.eat(token.Colon) {
		p.parseType()
	}
	p.parseClassTail(decl, start)
	return decl
}

func (p *Parser) parseNameList() []string {
	var out []string
	for p.at(token.Ident) {
		out = append(out, p.names.resolveClass(p.advance().Text))
		if !p.eat(token.Comma) {
			break
		}
	}
	return out
}

// parseClassTail reads the extends/implements clauses and the member body.
func (p *Parser) parseClassTail(decl *ast.ClassDecl, start source.Span) {
	if p.eat(token.KwExtends) {
		parents := p.parseNameList()
		if decl.Kind == ast.KindInterface {
			decl.Interfaces = append(decl.Interfaces, parents...)
		} else if len(parents) > 0 {
			decl.Parent = parents[0]
		}
	}
	if p.eat(token.KwImplements) {
		decl.Interfaces = append(decl.Interfaces, p.parseNameList()...)
	}

	saved := p.names
	p.names.class, p.names.parent = decl.FQN, decl.Parent
	defer func() { p.names.class, p.names.parent = saved.class, saved.parent }()

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' before class body"); !ok {
		p.resync()
		decl.Span = p.spanFrom(start)
		return
	}
	for !p.atAny(token.RBrace, token.EOF) {
		before := p.pos
		p.parseMember(decl)
		if p.pos == before {
			p.unexpected()
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' after class body")
	decl.Span = p.spanFrom(start)
}

var memberModifiers = map[token.Kind]bool{
	token.KwPublic: true, token.KwProtected: true, token.KwPrivate: true, token.KwStatic: true,
	token.KwAbstract: true, token.KwFinal: true, token.KwReadonly: true, token.KwVar: true,
}

func (p *Parser) parseMember(decl *ast.ClassDecl) {
	doc := p.docBefore()
	p.skipAttributes()
	if doc == "" {
		doc = p.docBefore()
	}
	start := p.peek().Span

	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		return
	case token.KwUse:
		p.advance()
		decl.Traits = append(decl.Traits, p.parseNameList()...)
		if p.at(token.LBrace) {
			p.skipBalanced()
		} else {
			p.endStmt()
		}
		return
	case token.KwCase:
		p.advance()
		name := p.peek()
		if !name.IsNameLike() {
			p.err(diag.SynExpectIdentifier, "expected enum case name")
			p.resync()
			return
		}
		p.advance()
		item := ast.ConstItem{Name: name.Text}
		if p.eat(token.Assign) {
			item.Value = p.parseExpr()
		}
		item.Span = p.spanFrom(start)
		decl.Consts = append(decl.Consts, item)
		p.endStmt()
		return
	}

	var static, abstract bool
	for memberModifiers[p.peek().Kind] {
		switch p.advance().Kind {
		case token.KwStatic:
			static = true
		case token.KwAbstract:
			abstract = true
		}
	}

	switch p.peek().Kind {
	case token.KwConst:
		p.advance()
		decl.Consts = append(decl.Consts, p.parseConstItems(false)...)
		p.endStmt()
	case token.KwFunction:
		fn := p.parseFunction(doc)
		fn.Static, fn.Abstract = static, abstract
		decl.Methods = append(decl.Methods, fn)
	default:
		p.parseProperties(decl, doc, static, start)
	}
}

func (p *Parser) parseProperties(decl *ast.ClassDecl, doc string, static bool, start source.Span) {
	var typ *ast.TypeHint
	if !p.at(token.Variable) {
		typ = p.parseType()
	}
	for {
		v, ok := p.expect(token.Variable, diag.SynExpectIdentifier, "expected property name")
		if !ok {
			p.resync()
			return
		}
		prop := ast.PropDecl{Name: v.Text[1:], Type: typ, Static: static, Doc: doc}
		if p.eat(token.Assign) {
			prop.Default = p.parseExpr()
		}
		prop.Span = p.spanFrom(start)
		decl.Props = append(decl.Props, prop)
		if !p.eat(token.Comma) {
			break
		}
	}
	if p.at(token.LBrace) {
		// property hooks
		p.skipBalanced()
		return
	}
	p.endStmt()
}
