package lexer

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [A-Za-z_][A-Za-z0-9_]* и проверяет через LookupKeyword.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// GLSL ES допускает только ASCII вне комментариев.
func (lx *Lexer) scanNonASCII() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	lx.errLex(diag.LexUnknownChar, sp, "invalid character '"+text+"' outside of a comment")
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
