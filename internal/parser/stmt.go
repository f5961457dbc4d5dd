package parser

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

func (p *Parser) parseStatement() (*ast.Node, bool) {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseCompound()
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwBreak, token.KwContinue, token.KwReturn, token.KwDiscard:
		return p.parseJump()
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement: declaration_statement | expression_statement
func (p *Parser) parseSimpleStatement() (*ast.Node, bool) {
	if p.atTypeStart() || p.at(token.KwPrecision) {
		return p.parseLocalDeclaration()
	}
	start := p.peek().Span
	var expr *ast.Node
	if !p.at(token.Semicolon) {
		var ok bool
		if expr, ok = p.parseExpression(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'"); !ok {
		return nil, false
	}
	return ast.New(ast.KindExpressionStatement, start.Cover(p.lastSpan), expr), true
}

func (p *Parser) parseCompound() (*ast.Node, bool) {
	open := p.advance()
	block := ast.New(ast.KindCompoundStatement, open.Span)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedBrace, open.Span, "unclosed block")
		}
		st, ok := p.parseStatement()
		if !ok {
			return nil, false
		}
		if !p.attach(block, st) {
			return nil, false
		}
	}
	p.advance()
	block.Span = open.Span.Cover(p.lastSpan)
	return block, true
}

// parseParenExpr: '(' expression ')'
func (p *Parser) parseParenExpr() (*ast.Node, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
	if !ok {
		return nil, false
	}
	expr, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	if !p.at(token.RParen) {
		return nil, p.fail(diag.SynUnclosedParen, open.Span, "expected ')'")
	}
	p.advance()
	return expr, true
}

func (p *Parser) parseIf() (*ast.Node, bool) {
	kw := p.advance()
	cond, ok := p.parseParenExpr()
	if !ok {
		return nil, false
	}
	then, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	var els *ast.Node
	if p.at(token.KwElse) {
		p.advance()
		if els, ok = p.parseStatement(); !ok {
			return nil, false
		}
	}
	return ast.New(ast.KindSelectionStatement, kw.Span.Cover(p.lastSpan), cond, then, els), true
}

// parseFor: 'for' '(' init cond? ';' iter? ')' statement
func (p *Parser) parseFor() (*ast.Node, bool) {
	kw := p.advance()
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'(' after for")
	if !ok {
		return nil, false
	}
	init, ok := p.parseSimpleStatement()
	if !ok {
		return nil, false
	}
	var cond, iter *ast.Node
	if !p.at(token.Semicolon) {
		if p.atTypeStart() {
			return nil, p.fail(diag.SynUnsupported, p.peek().Span, "declarations in a for condition are not supported")
		}
		if cond, ok = p.parseExpression(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' after for condition"); !ok {
		return nil, false
	}
	if !p.at(token.RParen) {
		if iter, ok = p.parseExpression(); !ok {
			return nil, false
		}
	}
	if !p.at(token.RParen) {
		return nil, p.fail(diag.SynUnclosedParen, open.Span, "expected ')' after for header")
	}
	p.advance()
	body, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	return ast.New(ast.KindForStatement, kw.Span.Cover(p.lastSpan), init, cond, iter, body), true
}

func (p *Parser) parseWhile() (*ast.Node, bool) {
	kw := p.advance()
	cond, ok := p.parseParenExpr()
	if !ok {
		return nil, false
	}
	body, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	return ast.New(ast.KindWhileStatement, kw.Span.Cover(p.lastSpan), cond, body), true
}

func (p *Parser) parseDo() (*ast.Node, bool) {
	kw := p.advance()
	body, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "'while' after do body"); !ok {
		return nil, false
	}
	cond, ok := p.parseParenExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';' after do-while"); !ok {
		return nil, false
	}
	return ast.New(ast.KindDoStatement, kw.Span.Cover(p.lastSpan), body, cond), true
}

// parseJump: continue; | break; | discard; | return [expr];
func (p *Parser) parseJump() (*ast.Node, bool) {
	kw := p.advance()
	var value *ast.Node
	if kw.Kind == token.KwReturn && !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpression(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'"); !ok {
		return nil, false
	}
	n := ast.New(ast.KindJumpStatement, kw.Span.Cover(p.lastSpan), value)
	n.Attr.Op = kw.Kind
	return n, true
}
