package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all GLSL ES 1.00 type kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindInt
	KindFloat
	KindVector
	KindMatrix
	KindSampler2D
	KindSamplerCube
	KindStruct
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindSampler2D:
		return "sampler2D"
	case KindSamplerCube:
		return "samplerCube"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Precision is a GLSL precision qualifier. It is not part of type identity.
type Precision uint8

const (
	PrecisionNone Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	}
	return ""
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // component scalar of vectors/matrices, element of arrays
	Count   uint32 // vector size, matrix dimension, array length
	Payload uint32 // struct slot
}

// MakeVector describes a vector of n scalars.
func MakeVector(scalar TypeID, n uint32) Type {
	return Type{Kind: KindVector, Elem: scalar, Count: n}
}

// MakeMatrix describes a square float matrix of dimension n.
func MakeMatrix(float TypeID, n uint32) Type {
	return Type{Kind: KindMatrix, Elem: float, Count: n}
}

// MakeArray describes a sized array; GLSL ES 1.00 has only one dimension.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}
