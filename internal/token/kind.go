package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is a decimal, octal or hexadecimal integer literal.
	IntLit
	// FloatLit is a floating literal with a fraction or an exponent.
	FloatLit

	// Qualifiers and statements.
	KwAttribute // attribute
	KwConst     // const
	KwUniform   // uniform
	KwVarying   // varying
	KwIn        // in
	KwOut       // out
	KwInout     // inout
	KwInvariant // invariant
	KwPrecision // precision
	KwLowp      // lowp
	KwMediump   // mediump
	KwHighp     // highp
	KwBreak     // break
	KwContinue  // continue
	KwDo        // do
	KwFor       // for
	KwWhile     // while
	KwIf        // if
	KwElse      // else
	KwDiscard   // discard
	KwReturn    // return
	KwStruct    // struct
	KwTrue      // true
	KwFalse     // false

	// Built-in type names.
	KwVoid        // void
	KwBool        // bool
	KwInt         // int
	KwFloat       // float
	KwVec2        // vec2
	KwVec3        // vec3
	KwVec4        // vec4
	KwBvec2       // bvec2
	KwBvec3       // bvec3
	KwBvec4       // bvec4
	KwIvec2       // ivec2
	KwIvec3       // ivec3
	KwIvec4       // ivec4
	KwMat2        // mat2
	KwMat3        // mat3
	KwMat4        // mat4
	KwSampler2D   // sampler2D
	KwSamplerCube // samplerCube

	// KwReserved is any word reserved for future use (asm, class, switch, ...).
	KwReserved

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	XorXor        // ^^
	Question      // ?
	Colon         // :
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	Hash          // #
	HashHash      // ##

	kindCount
)

var kindNames = [kindCount]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident", IntLit: "IntLit", FloatLit: "FloatLit",
	KwAttribute: "attribute", KwConst: "const", KwUniform: "uniform", KwVarying: "varying",
	KwIn: "in", KwOut: "out", KwInout: "inout", KwInvariant: "invariant", KwPrecision: "precision",
	KwLowp: "lowp", KwMediump: "mediump", KwHighp: "highp", KwBreak: "break", KwContinue: "continue",
	KwDo: "do", KwFor: "for", KwWhile: "while", KwIf: "if", KwElse: "else", KwDiscard: "discard",
	KwReturn: "return", KwStruct: "struct", KwTrue: "true", KwFalse: "false",
	KwVoid: "void", KwBool: "bool", KwInt: "int", KwFloat: "float",
	KwVec2: "vec2", KwVec3: "vec3", KwVec4: "vec4",
	KwBvec2: "bvec2", KwBvec3: "bvec3", KwBvec4: "bvec4",
	KwIvec2: "ivec2", KwIvec3: "ivec3", KwIvec4: "ivec4",
	KwMat2: "mat2", KwMat3: "mat3", KwMat4: "mat4",
	KwSampler2D: "sampler2D", KwSamplerCube: "samplerCube",
	KwReserved: "reserved word",
	Plus:       "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=",
	AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	PlusPlus: "++", MinusMinus: "--", EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Shl: "<<", Shr: ">>",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", AndAnd: "&&", OrOr: "||", XorXor: "^^",
	Question: "?", Colon: ":", Semicolon: ";", Comma: ",", Dot: ".",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Hash: "#", HashHash: "##",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTypeKeyword reports whether k names a built-in type.
func (k Kind) IsTypeKeyword() bool {
	return k >= KwVoid && k <= KwSamplerCube
}

// IsPrecision reports whether k is lowp, mediump or highp.
func (k Kind) IsPrecision() bool {
	return k == KwLowp || k == KwMediump || k == KwHighp
}

// IsAssignOp reports whether k is '=' or a compound assignment.
func (k Kind) IsAssignOp() bool {
	return k >= Assign && k <= ShrAssign
}
