package lexer

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// Поддержка: 123, 0777 (восьмеричные), 0x1F, 1.0, .5, 1., 1e-3, 2E+10.
// Суффиксов в GLSL ES 1.00 нет: "1.0f" или "3u" дают ошибку LexBadNumber.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	bad := ""

	switch {
	case lx.cursor.Peek() == '.':
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		bad = lx.scanExponent()

	case lx.isHexPrefix():
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !isHex(lx.cursor.Peek()) {
			bad = "expected hexadecimal digit after 0x"
		}
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}

	default:
		octal := lx.cursor.Peek() == '0'
		badOctal := false
		for isDec(lx.cursor.Peek()) {
			if lx.cursor.Bump() > '7' {
				badOctal = true
			}
		}
		if lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
		if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
			kind = token.FloatLit
			bad = lx.scanExponent()
		}
		if kind == token.IntLit && octal && badOctal {
			bad = "invalid digit in octal constant"
		}
	}

	// хвост вида 1.0f / 10u / 0x1g
	if isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
		for isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
		}
		if bad == "" {
			bad = "invalid numeric literal suffix"
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if bad != "" {
		lx.errLex(diag.LexBadNumber, sp, bad+": '"+text+"'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

// scanExponent consumes an optional [eE][+-]?digits part.
func (lx *Lexer) scanExponent() string {
	if b := lx.cursor.Peek(); b != 'e' && b != 'E' {
		return ""
	}
	lx.cursor.Bump()
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		return "expected digit after exponent"
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return ""
}

func (lx *Lexer) isHexPrefix() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '0' && (b1 == 'x' || b1 == 'X')
}
