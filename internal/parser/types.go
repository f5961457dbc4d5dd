package parser

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

func precisionOf(k token.Kind) types.Precision {
	switch k {
	case token.KwLowp:
		return types.PrecisionLow
	case token.KwMediump:
		return types.PrecisionMedium
	case token.KwHighp:
		return types.PrecisionHigh
	}
	return types.PrecisionNone
}

func storageOf(k token.Kind) (symbols.Qualifier, bool) {
	switch k {
	case token.KwConst:
		return symbols.QualConst, true
	case token.KwAttribute:
		return symbols.QualAttribute, true
	case token.KwUniform:
		return symbols.QualUniform, true
	case token.KwVarying:
		return symbols.QualVarying, true
	}
	return symbols.QualTemporary, false
}

// atTypeStart reports whether a type (possibly qualified) begins here.
// A user type name is recognised only when an identifier follows it.
func (p *Parser) atTypeStart() bool {
	t := p.peek()
	switch {
	case t.Kind.IsTypeKeyword():
		return p.peekN(1).Kind != token.LParen
	case t.Kind.IsPrecision(), t.Kind == token.KwStruct:
		return true
	case t.Kind == token.KwConst, t.Kind == token.KwAttribute, t.Kind == token.KwUniform,
		t.Kind == token.KwVarying, t.Kind == token.KwInvariant:
		return true
	case t.Kind == token.Ident:
		return p.peekN(1).Kind == token.Ident
	}
	return false
}

// parseFullType: [invariant] [storage] [precision] type_specifier
func (p *Parser) parseFullType() (*ast.Node, bool) {
	start := p.peek().Span
	var invariant bool
	if p.at(token.KwInvariant) {
		p.advance()
		invariant = true
	}
	qual, hasQual := storageOf(p.peek().Kind)
	if hasQual {
		p.advance()
	}
	if invariant && qual != symbols.QualVarying {
		return nil, p.fail(diag.SemaInvariantTarget, start, "'invariant' may only qualify varyings")
	}
	spec, ok := p.parseTypeSpecifier(true)
	if !ok {
		return nil, false
	}
	ft := ast.New(ast.KindFullType, start.Cover(p.lastSpan), spec)
	ft.Attr.Qual = qual
	ft.Attr.Invariant = invariant
	return ft, true
}

// parseTypeSpecifier: [precision] (type keyword | struct_specifier | TYPE_NAME)
func (p *Parser) parseTypeSpecifier(allowPrecision bool) (*ast.Node, bool) {
	start := p.peek().Span
	prec := types.PrecisionNone
	if p.peek().Kind.IsPrecision() {
		if !allowPrecision {
			return nil, p.err(diag.SynExpectType, "unexpected precision qualifier")
		}
		prec = precisionOf(p.advance().Kind)
	}
	tok := p.peek()
	var spec *ast.Node
	switch {
	case tok.Kind.IsTypeKeyword():
		p.advance()
		spec = ast.New(ast.KindTypeSpecifier, tok.Span, nil)
		spec.Attr.Op = tok.Kind
	case tok.Kind == token.KwStruct:
		st, ok := p.parseStructSpecifier()
		if !ok {
			return nil, false
		}
		spec = ast.New(ast.KindTypeSpecifier, st.Span, st)
		spec.Attr.Op = token.KwStruct
	case tok.Kind == token.Ident:
		p.advance()
		spec = ast.New(ast.KindTypeSpecifier, tok.Span, nil)
		spec.Attr.Op = token.Ident
		spec.Attr.Name = p.intern(tok)
	default:
		return nil, p.err(diag.SynExpectType, "expected type, found %s", describeToken(tok))
	}
	spec.Attr.Precision = prec
	spec.Span = start.Cover(p.lastSpan)
	return spec, true
}

// parseStructSpecifier: 'struct' [IDENT] '{' struct_declaration+ '}'
func (p *Parser) parseStructSpecifier() (*ast.Node, bool) {
	kw := p.advance()
	st := ast.New(ast.KindStructSpecifier, kw.Span, nil)
	if p.at(token.Ident) {
		st.Attr.Name = p.intern(p.advance())
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{' after struct")
	if !ok {
		return nil, false
	}
	list := ast.New(ast.KindStructDeclarationList, open.Span)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedBrace, open.Span, "unclosed struct body")
		}
		decl, ok := p.parseStructDeclaration()
		if !ok {
			return nil, false
		}
		if !p.attach(list, decl) {
			return nil, false
		}
	}
	p.advance()
	if list.Len() == 0 {
		return nil, p.fail(diag.SemaStructInvalid, list.Span, "struct must declare at least one member")
	}
	list.Span = open.Span.Cover(p.lastSpan)
	if _, err := st.Replace(ast.StructSpecList, list); err != nil {
		return nil, p.internal(err)
	}
	st.Span = kw.Span.Cover(p.lastSpan)
	return st, true
}

// parseStructDeclaration: type_specifier declarator (',' declarator)* ';'
func (p *Parser) parseStructDeclaration() (*ast.Node, bool) {
	spec, ok := p.parseTypeSpecifier(true)
	if !ok {
		return nil, false
	}
	decl := ast.New(ast.KindStructDeclaration, spec.Span, spec)
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "member name")
		if !ok {
			return nil, false
		}
		var size *ast.Node
		if p.at(token.LBracket) {
			if size, ok = p.parseArraySize(); !ok {
				return nil, false
			}
		}
		d := ast.New(ast.KindStructDeclarator, name.Span.Cover(p.lastSpan), size)
		d.Attr.Name = p.intern(name)
		if !p.attach(decl, d) {
			return nil, false
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' after struct member"); !ok {
		return nil, false
	}
	decl.Span = spec.Span.Cover(p.lastSpan)
	return decl, true
}

// parseArraySize: '[' constant_expression ']'
func (p *Parser) parseArraySize() (*ast.Node, bool) {
	open := p.advance()
	if p.at(token.RBracket) {
		return nil, p.err(diag.SemaArraySize, "array size must be given")
	}
	expr, ok := p.parseConditional()
	if !ok {
		return nil, false
	}
	if !p.at(token.RBracket) {
		return nil, p.fail(diag.SynUnclosedBracket, open.Span, "expected ']'")
	}
	p.advance()
	return ast.New(ast.KindArraySize, open.Span.Cover(p.lastSpan), expr), true
}
