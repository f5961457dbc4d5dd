package token

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// Flags carry layout facts the preprocessor needs.
type Flags uint8

const (
	// FlagLineStart marks the first token on a physical line.
	FlagLineStart Flags = 1 << iota
	// FlagSpaceBefore marks a token preceded by whitespace or a comment.
	FlagSpaceBefore
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Flags   Flags
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or boolean literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind < kindCount
}

// IsKeyword reports whether the token is a language keyword or reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAttribute && t.Kind <= KwReserved
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// AtLineStart reports whether the token is the first on its line.
func (t Token) AtLineStart() bool { return t.Flags&FlagLineStart != 0 }
