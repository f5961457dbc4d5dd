package parser

import (
	"math"
	"strconv"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// Таблица приоритетов бинарных операторов; чем больше, тем сильнее связывает
const (
	precLogicalOr      = 1  // ||
	precLogicalXor     = 2  // ^^
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == !=
	precRelational     = 8  // < <= > >=
	precShift          = 9  // << >>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return precLogicalOr
	case token.XorXor:
		return precLogicalXor
	case token.AndAnd:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precRelational
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return -1
}

// parseExpression: assignment (',' assignment)*
func (p *Parser) parseExpression() (*ast.Node, bool) {
	first, ok := p.parseAssignment()
	if !ok {
		return nil, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	list := ast.New(ast.KindExpressionList, first.Span, first)
	for p.at(token.Comma) {
		p.advance()
		next, ok := p.parseAssignment()
		if !ok {
			return nil, false
		}
		if !p.attach(list, next) {
			return nil, false
		}
	}
	list.Span = first.Span.Cover(p.lastSpan)
	return list, true
}

// parseAssignment: conditional | unary assign_op assignment
func (p *Parser) parseAssignment() (*ast.Node, bool) {
	lhs, ok := p.parseConditional()
	if !ok {
		return nil, false
	}
	if !p.peek().Kind.IsAssignOp() {
		return lhs, true
	}
	op := p.advance()
	rhs, ok := p.parseAssignment()
	if !ok {
		return nil, false
	}
	n := ast.New(ast.KindAssignment, lhs.Span.Cover(rhs.Span), lhs, rhs)
	n.Attr.Op = op.Kind
	return n, true
}

// parseConditional: logical_or ['?' expression ':' assignment]
func (p *Parser) parseConditional() (*ast.Node, bool) {
	test, ok := p.parseBinary(precLogicalOr)
	if !ok || !p.at(token.Question) {
		return test, ok
	}
	p.advance()
	t, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "':' in conditional expression"); !ok {
		return nil, false
	}
	f, ok := p.parseAssignment()
	if !ok {
		return nil, false
	}
	return ast.New(ast.KindConditional, test.Span.Cover(f.Span), test, t, f), true
}

// parseBinary: precedence climbing, all binary operators are left-associative
func (p *Parser) parseBinary(minPrec int) (*ast.Node, bool) {
	lhs, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op := p.peek()
		prec := binaryPrec(op.Kind)
		if prec < minPrec {
			return lhs, true
		}
		p.advance()
		rhs, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		n := ast.New(ast.KindBinary, lhs.Span.Cover(rhs.Span), lhs, rhs)
		n.Attr.Op = op.Kind
		lhs = n
	}
}

// parseUnary: postfix | (++ | -- | + | - | ! | ~) unary
func (p *Parser) parseUnary() (*ast.Node, bool) {
	switch op := p.peek(); op.Kind {
	case token.PlusPlus, token.MinusMinus, token.Plus, token.Minus, token.Bang, token.Tilde:
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		n := ast.New(ast.KindUnary, op.Span.Cover(operand.Span), operand)
		n.Attr.Op = op.Kind
		return n, true
	}
	return p.parsePostfix()
}

// parsePostfix: primary ('[' expression ']' | '.' IDENT | '++' | '--')*
func (p *Parser) parsePostfix() (*ast.Node, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch op := p.peek(); op.Kind {
		case token.LBracket:
			p.advance()
			idx, ok := p.parseExpression()
			if !ok {
				return nil, false
			}
			if !p.at(token.RBracket) {
				return nil, p.fail(diag.SynUnclosedBracket, op.Span, "expected ']'")
			}
			p.advance()
			expr = ast.New(ast.KindIndex, expr.Span.Cover(p.lastSpan), expr, idx)
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "field or swizzle after '.'")
			if !ok {
				return nil, false
			}
			if p.at(token.LParen) {
				return nil, p.fail(diag.SynUnsupported, name.Span, "method calls are not supported")
			}
			sel := ast.New(ast.KindFieldSelection, expr.Span.Cover(name.Span), expr)
			sel.Attr.Name = p.intern(name)
			expr = sel
		case token.PlusPlus, token.MinusMinus:
			p.advance()
			u := ast.New(ast.KindUnary, expr.Span.Cover(op.Span), expr)
			u.Attr.Op = op.Kind
			u.Attr.Postfix = true
			expr = u
		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (*ast.Node, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Ident:
		p.advance()
		if p.at(token.LParen) {
			call := ast.New(ast.KindFunctionCall, tok.Span)
			call.Attr.Name = p.intern(tok)
			return p.parseCallArgs(call)
		}
		id := ast.New(ast.KindIdentifier, tok.Span)
		id.Attr.Name = p.intern(tok)
		return id, true
	case tok.Kind.IsTypeKeyword() && p.peekN(1).Kind == token.LParen:
		p.advance()
		spec := ast.New(ast.KindTypeSpecifier, tok.Span, nil)
		spec.Attr.Op = tok.Kind
		return p.parseCallArgs(ast.New(ast.KindConstructor, tok.Span, spec))
	case tok.Kind == token.IntLit:
		return p.parseIntLiteral()
	case tok.Kind == token.FloatLit:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !isRangeErr(err) {
			return nil, p.fail(diag.LexBadNumber, tok.Span, "invalid float constant '%s'", tok.Text)
		}
		return literal(tok, types.FloatValue(f)), true
	case tok.Kind == token.KwTrue, tok.Kind == token.KwFalse:
		p.advance()
		return literal(tok, types.BoolValue(tok.Kind == token.KwTrue)), true
	case tok.Kind == token.LParen:
		open := p.advance()
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
	return nil, p.err(diag.SynExpectExpression, "expected expression, found %s", describeToken(tok))
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func literal(tok token.Token, v types.Value) *ast.Node {
	n := ast.New(ast.KindLiteral, tok.Span)
	n.Attr.Value = v
	return n
}

// parseIntLiteral accepts decimal, octal and hex forms. Values up to
// 0xFFFFFFFF are accepted and wrap to the signed range.
func (p *Parser) parseIntLiteral() (*ast.Node, bool) {
	tok := p.advance()
	v, err := strconv.ParseUint(tok.Text, 0, 64)
	if err != nil && !isRangeErr(err) {
		return nil, p.fail(diag.LexBadNumber, tok.Span, "invalid integer constant '%s'", tok.Text)
	}
	if err != nil || v > math.MaxUint32 {
		return nil, p.fail(diag.LexBadNumber, tok.Span, "integer constant '%s' overflows", tok.Text)
	}
	return literal(tok, types.IntValue(int32(uint32(v)))), true
}

// parseCallArgs: '(' [void | assignment (',' assignment)*] ')'
func (p *Parser) parseCallArgs(call *ast.Node) (*ast.Node, bool) {
	open := p.advance()
	if p.at(token.KwVoid) && p.peekN(1).Kind == token.RParen {
		p.advance()
	}
	first := true
	for !p.at(token.RParen) {
		if !first {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "',' or ')' in argument list"); !ok {
				return nil, false
			}
		}
		if p.at(token.EOF) {
			return nil, p.fail(diag.SynUnclosedParen, open.Span, "unclosed argument list")
		}
		arg, ok := p.parseAssignment()
		if !ok {
			return nil, false
		}
		if !p.attach(call, arg) {
			return nil, false
		}
		first = false
	}
	p.advance()
	call.Span = call.Span.Cover(p.lastSpan)
	return call, true
}
