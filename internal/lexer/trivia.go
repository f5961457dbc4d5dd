package lexer

import (
	"bytes"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\v', '\f', '\r' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment
// - /* ... */ -> TriviaBlockComment (без вложенности; если не закрыта, репорт)
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isSpace(b) {
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			lx.flags |= token.FlagSpaceBefore
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			lx.flags |= token.FlagLineStart
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			lx.flags |= token.FlagSpaceBefore
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return false
	}
	switch lx.cursor.Peek() {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true

	case '*':
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		if !closed {
			lx.errLex(diag.LexUnterminatedComment, sp, "unterminated block comment")
		}
		// перевод строки внутри комментария начинает новую строку для препроцессора
		if bytes.IndexByte(lx.file.Content[sp.Start:sp.End], '\n') >= 0 {
			lx.flags |= token.FlagLineStart
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	default:
		lx.cursor.Reset(start)
		return false
	}
}
