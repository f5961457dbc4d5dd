package symbols

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolParam
	SymbolFunction
	SymbolStruct
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolParam:
		return "parameter"
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Qualifier is the storage or parameter qualifier of a variable.
type Qualifier uint8

const (
	QualTemporary Qualifier = iota
	QualConst
	QualAttribute
	QualUniform
	QualVarying
	QualIn
	QualOut
	QualInout
	QualConstIn // const in parameter
)

func (q Qualifier) String() string {
	switch q {
	case QualConst:
		return "const"
	case QualAttribute:
		return "attribute"
	case QualUniform:
		return "uniform"
	case QualVarying:
		return "varying"
	case QualIn:
		return "in"
	case QualOut:
		return "out"
	case QualInout:
		return "inout"
	case QualConstIn:
		return "const in"
	}
	return ""
}

// Interface reports attribute, uniform and varying qualifiers.
func (q Qualifier) Interface() bool {
	return q == QualAttribute || q == QualUniform || q == QualVarying
}

// Writable reports whether a parameter qualifier passes a value back.
func (q Qualifier) Writable() bool {
	return q == QualOut || q == QualInout
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	SymbolFlagReadOnly
	SymbolFlagInvariant
	SymbolFlagLoopIndex
	SymbolFlagDefined // function has a body
)

// Param is one parameter of a function signature.
type Param struct {
	Name source.StringID
	Type types.TypeID
	Qual Qualifier
	Prec types.Precision
}

// Signature describes a function symbol.
type Signature struct {
	Params []Param
	Result types.TypeID
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name      source.StringID
	Kind      SymbolKind
	Scope     ScopeID
	Span      source.Span
	Type      types.TypeID
	Qual      Qualifier
	Prec      types.Precision
	Flags     SymbolFlags
	Const     *types.Constant
	Signature *Signature
	// Extension gates built-ins that need an #extension to be enabled.
	Extension string
	// Index is the identifier id assigned in declaration order.
	Index uint32
	Reads uint32
	// Writes counts assignments, increments and out/inout argument uses.
	Writes   uint32
	HLSLName string
}

func (s *Symbol) Builtin() bool { return s.Flags&SymbolFlagBuiltin != 0 }
