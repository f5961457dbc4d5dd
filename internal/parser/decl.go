package parser

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// parseExternalDeclaration: function_definition | declaration
func (p *Parser) parseExternalDeclaration() (*ast.Node, bool) {
	switch {
	case p.at(token.KwPrecision):
		return p.parsePrecisionDeclaration()
	case p.at(token.KwInvariant) && p.peekN(1).Kind == token.Ident:
		return p.parseInvariantDeclaration()
	case !p.atTypeStart() && !p.at(token.Ident) && !p.peek().Kind.IsTypeKeyword():
		return nil, p.err(diag.SynUnexpectedToken, "expected declaration, found %s", describeToken(p.peek()))
	}
	ft, ok := p.parseFullType()
	if !ok {
		return nil, false
	}
	if p.at(token.Ident) && p.peekN(1).Kind == token.LParen {
		proto, ok := p.parsePrototypeRest(ft)
		if !ok {
			return nil, false
		}
		if p.at(token.LBrace) {
			body, ok := p.parseCompound()
			if !ok {
				return nil, false
			}
			return ast.New(ast.KindFunctionDefinition, proto.Span.Cover(body.Span), proto, body), true
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' or function body"); !ok {
			return nil, false
		}
		return proto, true
	}
	return p.parseDeclaratorListRest(ft)
}

// parseLocalDeclaration parses a declaration in statement position.
func (p *Parser) parseLocalDeclaration() (*ast.Node, bool) {
	if p.at(token.KwPrecision) {
		return p.parsePrecisionDeclaration()
	}
	if p.at(token.KwInvariant) && p.peekN(1).Kind == token.Ident {
		return p.parseInvariantDeclaration()
	}
	ft, ok := p.parseFullType()
	if !ok {
		return nil, false
	}
	if p.at(token.Ident) && p.peekN(1).Kind == token.LParen {
		return nil, p.fail(diag.SynUnsupported, p.peek().Span, "functions cannot be declared inside a function")
	}
	return p.parseDeclaratorListRest(ft)
}

// parsePrototypeRest: IDENT '(' [void | param (',' param)*] ')'
func (p *Parser) parsePrototypeRest(ret *ast.Node) (*ast.Node, bool) {
	name := p.advance()
	open := p.advance()
	proto := ast.New(ast.KindFunctionPrototype, ret.Span, ret)
	proto.Attr.Name = p.intern(name)
	if p.at(token.KwVoid) && p.peekN(1).Kind == token.RParen {
		p.advance()
	}
	for !p.at(token.RParen) {
		if proto.Len() > ast.ProtoFirstParam {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "',' or ')'"); !ok {
				return nil, false
			}
		}
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedParen, open.Span, "unclosed parameter list")
		}
		param, ok := p.parseParameter()
		if !ok {
			return nil, false
		}
		if !p.attach(proto, param) {
			return nil, false
		}
	}
	p.advance()
	proto.Span = ret.Span.Cover(p.lastSpan)
	return proto, true
}

// parseParameter: [const] [in|out|inout] [precision] type_specifier [IDENT [array]]
func (p *Parser) parseParameter() (*ast.Node, bool) {
	start := p.peek().Span
	var isConst bool
	if p.at(token.KwConst) {
		p.advance()
		isConst = true
	}
	qual := symbols.QualIn
	switch p.peek().Kind {
	case token.KwIn:
		p.advance()
	case token.KwOut:
		p.advance()
		qual = symbols.QualOut
	case token.KwInout:
		p.advance()
		qual = symbols.QualInout
	}
	if isConst {
		if qual != symbols.QualIn {
			return nil, p.fail(diag.SemaQualifierScope, start.Cover(p.lastSpan), "'const' parameters must be 'in'")
		}
		qual = symbols.QualConstIn
	}
	spec, ok := p.parseTypeSpecifier(true)
	if !ok {
		return nil, false
	}
	ft := ast.New(ast.KindFullType, spec.Span, spec)
	param := ast.New(ast.KindParameterDeclaration, start, ft, nil)
	param.Attr.Qual = qual
	if p.at(token.Ident) {
		param.Attr.Name = p.intern(p.advance())
	}
	if p.at(token.LBracket) {
		size, ok := p.parseArraySize()
		if !ok {
			return nil, false
		}
		if err := param.SetChild(ast.ParamArraySize, size); err != nil {
			return nil, p.internal(err)
		}
	}
	param.Span = start.Cover(p.lastSpan)
	return param, true
}

// parseDeclaratorListRest: [declarator (',' declarator)*] ';'
func (p *Parser) parseDeclaratorListRest(ft *ast.Node) (*ast.Node, bool) {
	list := ast.New(ast.KindDeclaratorList, ft.Span, ft)
	for !p.at(token.Semicolon) {
		if list.Len() > ast.DeclListFirst {
			if _, ok := p.expect(token.Comma, diag.SynExpectSemicolon, "';' after declaration"); !ok {
				return nil, false
			}
		}
		d, ok := p.parseDeclarator()
		if !ok {
			return nil, false
		}
		if !p.attach(list, d) {
			return nil, false
		}
	}
	p.advance()
	list.Span = ft.Span.Cover(p.lastSpan)
	return list, true
}

// parseDeclarator: IDENT [array] ['=' initializer]
func (p *Parser) parseDeclarator() (*ast.Node, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "variable name")
	if !ok {
		return nil, false
	}
	var size, init *ast.Node
	if p.at(token.LBracket) {
		if size, ok = p.parseArraySize(); !ok {
			return nil, false
		}
	}
	if p.at(token.Assign) {
		eq := p.advance()
		expr, ok := p.parseAssignment()
		if !ok {
			return nil, false
		}
		init = ast.New(ast.KindInitializer, eq.Span.Cover(expr.Span), expr)
	}
	d := ast.New(ast.KindDeclarator, name.Span.Cover(p.lastSpan), size, init)
	d.Attr.Name = p.intern(name)
	return d, true
}

// parsePrecisionDeclaration: 'precision' precision_qualifier type_specifier ';'
func (p *Parser) parsePrecisionDeclaration() (*ast.Node, bool) {
	kw := p.advance()
	if !p.peek().Kind.IsPrecision() {
		return nil, p.err(diag.SynUnexpectedToken, "expected precision qualifier, found %s", describeToken(p.peek()))
	}
	prec := precisionOf(p.advance().Kind)
	spec, ok := p.parseTypeSpecifier(false)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' after precision statement"); !ok {
		return nil, false
	}
	n := ast.New(ast.KindPrecisionDeclaration, kw.Span.Cover(p.lastSpan), spec)
	n.Attr.Precision = prec
	return n, true
}

// parseInvariantDeclaration: 'invariant' IDENT (',' IDENT)* ';'
func (p *Parser) parseInvariantDeclaration() (*ast.Node, bool) {
	kw := p.advance()
	n := ast.New(ast.KindInvariantDeclaration, kw.Span)
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "varying name")
		if !ok {
			return nil, false
		}
		id := ast.New(ast.KindIdentifier, name.Span)
		id.Attr.Name = p.intern(name)
		if !p.attach(n, id) {
			return nil, false
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' after invariant declaration"); !ok {
		return nil, false
	}
	n.Span = kw.Span.Cover(p.lastSpan)
	return n, true
}
