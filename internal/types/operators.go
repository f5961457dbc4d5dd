package types

import "github.com/MicrosoftEdge/WebGL-sub003/internal/token"

// IsReservedOperator reports operators GLSL ES 1.00 reserves but does not
// implement: %, bitwise and shift operators and their assignments.
func IsReservedOperator(op token.Kind) bool {
	switch op {
	case token.Percent, token.PercentAssign, token.Amp, token.Pipe, token.Caret, token.Tilde,
		token.Shl, token.Shr, token.AmpAssign, token.PipeAssign, token.CaretAssign,
		token.ShlAssign, token.ShrAssign:
		return true
	}
	return false
}

// ArithmeticResult computes the result type of l op r for + - * /.
// Scalars combine component-wise with vectors and matrices of the same
// base type; * between matrices and vectors is linear-algebraic.
func (in *Interner) ArithmeticResult(op token.Kind, l, r TypeID) (TypeID, bool) {
	if !in.IsNumeric(l) || !in.IsNumeric(r) || in.Scalar(l) != in.Scalar(r) {
		return NoTypeID, false
	}
	if l == r {
		return l, true
	}
	switch {
	case in.IsScalar(l):
		return r, true
	case in.IsScalar(r):
		return l, true
	}
	if op != token.Star {
		return NoTypeID, false
	}
	switch {
	case in.IsMatrix(l) && in.IsVector(r) && in.Size(l) == in.Size(r):
		return r, true
	case in.IsVector(l) && in.IsMatrix(r) && in.Size(l) == in.Size(r):
		return l, true
	}
	return NoTypeID, false
}

// IsLinearAlgebraMul reports whether l*r is a matrix product rather than a
// component-wise one.
func (in *Interner) IsLinearAlgebraMul(l, r TypeID) bool {
	lm, rm := in.IsMatrix(l), in.IsMatrix(r)
	return (lm && rm) || (lm && in.IsVector(r)) || (in.IsVector(l) && rm)
}

// Comparable reports whether values of id may be compared with == and !=.
func (in *Interner) Comparable(id TypeID) bool {
	return !in.Contains(id, func(t TypeID) bool {
		return in.IsSampler(t) || in.IsArray(t) || in.Kind(t) == KindVoid
	})
}

// Assignable reports whether a variable of id may be the target of '='.
func (in *Interner) Assignable(id TypeID) bool {
	return !in.IsArray(id) && !in.Contains(id, in.IsSampler)
}
