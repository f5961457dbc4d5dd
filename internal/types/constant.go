package types

import (
	"math"
	"strconv"
	"strings"
)

// Value is one folded scalar component.
type Value struct {
	Kind Kind // KindBool, KindInt or KindFloat
	B    bool
	I    int32
	F    float64
}

func BoolValue(b bool) Value     { return Value{Kind: KindBool, B: b} }
func IntValue(i int32) Value     { return Value{Kind: KindInt, I: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, F: float64(float32(f))} }

// AsFloat converts with constructor semantics.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindBool:
		if v.B {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.I)
	}
	return v.F
}

// AsInt converts with constructor semantics (floats truncate toward zero).
func (v Value) AsInt() int32 {
	switch v.Kind {
	case KindBool:
		if v.B {
			return 1
		}
		return 0
	case KindFloat:
		f := math.Trunc(v.F)
		switch {
		case math.IsNaN(f):
			return 0
		case f > math.MaxInt32:
			return math.MaxInt32
		case f < math.MinInt32:
			return math.MinInt32
		}
		return int32(f)
	}
	return v.I
}

// AsBool converts with constructor semantics (non-zero is true).
func (v Value) AsBool() bool {
	switch v.Kind {
	case KindInt:
		return v.I != 0
	case KindFloat:
		return v.F != 0
	}
	return v.B
}

// Convert returns v converted to kind.
func (v Value) Convert(kind Kind) Value {
	switch kind {
	case KindBool:
		return BoolValue(v.AsBool())
	case KindInt:
		return IntValue(v.AsInt())
	case KindFloat:
		return FloatValue(v.AsFloat())
	}
	return v
}

// Literal renders v as a source literal valid in both GLSL and HLSL.
func (v Value) Literal() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return strconv.FormatInt(int64(v.I), 10)
	}
	switch {
	case math.IsInf(v.F, 1):
		return "1.#INF"
	case math.IsInf(v.F, -1):
		return "-1.#INF"
	}
	s := strconv.FormatFloat(v.F, 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Constant is a folded value: the components of Type in column-major order.
type Constant struct {
	Type   TypeID
	Values []Value
}

// Scalar returns the single component of a scalar constant.
func (c *Constant) Scalar() (Value, bool) {
	if c == nil || len(c.Values) != 1 {
		return Value{}, false
	}
	return c.Values[0], true
}

// Clone returns a deep copy.
func (c *Constant) Clone() *Constant {
	if c == nil {
		return nil
	}
	return &Constant{Type: c.Type, Values: append([]Value(nil), c.Values...)}
}
