package pp

import (
	"strconv"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// evalCondition evaluates the integer expression of #if/#elif.
func (p *Preprocessor) evalCondition(sp source.Span, args []ppTok) (int64, error) {
	resolved, err := p.replaceDefined(sp, args)
	if err != nil {
		return 0, err
	}
	expanded, err := p.expandList(resolved)
	if err != nil {
		return 0, err
	}
	if len(expanded) == 0 {
		return 0, p.errorf(diag.PreInvalidExpression, sp, "missing expression in conditional directive")
	}
	vals, err := p.evalSequence(sp, expanded)
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, p.errorf(diag.PreInvalidExpression, sp, "unexpected tokens after conditional expression")
	}
	return vals[0], nil
}

// replaceDefined rewrites `defined X` and `defined(X)` into 1 or 0.
func (p *Preprocessor) replaceDefined(sp source.Span, args []ppTok) ([]ppTok, error) {
	out := make([]ppTok, 0, len(args))
	for i := 0; i < len(args); i++ {
		t := args[i]
		if t.Kind != token.Ident || t.Text != "defined" {
			out = append(out, t)
			continue
		}
		var name ppTok
		switch {
		case i+1 < len(args) && isNameToken(args[i+1]):
			name = args[i+1]
			i++
		case i+3 < len(args) && args[i+1].Kind == token.LParen && isNameToken(args[i+2]) && args[i+3].Kind == token.RParen:
			name = args[i+2]
			i += 3
		default:
			return nil, p.errorf(diag.PreInvalidExpression, t.Span, "'defined' expects a macro name")
		}
		val := "0"
		if _, ok := p.macros[name.Text]; ok {
			val = "1"
		}
		out = append(out, p.synth(t, token.IntLit, val))
	}
	return out, nil
}

// evalSequence evaluates consecutive expressions ("10 2" yields two values).
func (p *Preprocessor) evalSequence(sp source.Span, toks []ppTok) ([]int64, error) {
	ev := &exprEval{p: p, toks: toks, span: sp}
	var vals []int64
	for ev.pos < len(ev.toks) {
		v, err := ev.binary(1)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

type exprEval struct {
	p    *Preprocessor
	toks []ppTok
	pos  int
	span source.Span
}

func binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return 1
	case token.AndAnd:
		return 2
	case token.Pipe:
		return 3
	case token.Caret:
		return 4
	case token.Amp:
		return 5
	case token.EqEq, token.BangEq:
		return 6
	case token.Lt, token.Gt, token.LtEq, token.GtEq:
		return 7
	case token.Shl, token.Shr:
		return 8
	case token.Plus, token.Minus:
		return 9
	case token.Star, token.Slash, token.Percent:
		return 10
	}
	return 0
}

func (e *exprEval) fail(sp source.Span, format string, args ...any) error {
	return e.p.errorf(diag.PreInvalidExpression, sp, format, args...)
}

func (e *exprEval) binary(minPrec int) (int64, error) {
	lhs, err := e.unary()
	if err != nil {
		return 0, err
	}
	for e.pos < len(e.toks) {
		op := e.toks[e.pos]
		prec := binaryPrec(op.Kind)
		if prec == 0 || prec < minPrec {
			return lhs, nil
		}
		e.pos++
		rhs, err := e.binary(prec + 1)
		if err != nil {
			return 0, err
		}
		if lhs, err = e.apply(op, lhs, rhs); err != nil {
			return 0, err
		}
	}
	return lhs, nil
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (e *exprEval) apply(op ppTok, l, r int64) (int64, error) {
	switch op.Kind {
	case token.OrOr:
		return b2i(l != 0 || r != 0), nil
	case token.AndAnd:
		return b2i(l != 0 && r != 0), nil
	case token.Pipe:
		return l | r, nil
	case token.Caret:
		return l ^ r, nil
	case token.Amp:
		return l & r, nil
	case token.EqEq:
		return b2i(l == r), nil
	case token.BangEq:
		return b2i(l != r), nil
	case token.Lt:
		return b2i(l < r), nil
	case token.Gt:
		return b2i(l > r), nil
	case token.LtEq:
		return b2i(l <= r), nil
	case token.GtEq:
		return b2i(l >= r), nil
	case token.Shl, token.Shr:
		if r < 0 || r > 31 {
			return 0, e.fail(op.Span, "shift count %d out of range", r)
		}
		if op.Kind == token.Shl {
			return l << uint(r), nil
		}
		return l >> uint(r), nil
	case token.Plus:
		return l + r, nil
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash, token.Percent:
		if r == 0 {
			return 0, e.fail(op.Span, "division by zero in preprocessor expression")
		}
		if op.Kind == token.Slash {
			return l / r, nil
		}
		return l % r, nil
	}
	return 0, e.fail(op.Span, "unexpected operator '%s'", op.Text)
}

func (e *exprEval) unary() (int64, error) {
	if e.pos >= len(e.toks) {
		return 0, e.fail(e.span, "unexpected end of preprocessor expression")
	}
	t := e.toks[e.pos]
	e.pos++
	switch t.Kind {
	case token.Plus, token.Minus, token.Tilde, token.Bang:
		v, err := e.unary()
		if err != nil {
			return 0, err
		}
		switch t.Kind {
		case token.Minus:
			return -v, nil
		case token.Tilde:
			return ^v, nil
		case token.Bang:
			return b2i(v == 0), nil
		}
		return v, nil
	case token.LParen:
		v, err := e.binary(1)
		if err != nil {
			return 0, err
		}
		if e.pos >= len(e.toks) || e.toks[e.pos].Kind != token.RParen {
			return 0, e.fail(t.Span, "missing ')' in preprocessor expression")
		}
		e.pos++
		return v, nil
	case token.IntLit:
		v, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			return 0, e.fail(t.Span, "invalid integer '%s'", t.Text)
		}
		return v, nil
	case token.Ident:
		return 0, e.fail(t.Span, "undefined identifier '%s' in preprocessor expression", t.Text)
	}
	return 0, e.fail(t.Span, "unexpected token '%s' in preprocessor expression", t.Text)
}
