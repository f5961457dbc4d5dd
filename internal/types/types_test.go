package types

import (
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Float == NoTypeID || b.Mat[4] == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if in.Intern(MakeVector(b.Float, 3)) != b.Vec[3] {
		t.Fatalf("vec3 must be deduplicated against the builtin")
	}
	if in.Vector(b.Int, 1) != b.Int || in.Vector(b.Bool, 4) != b.BVec[4] {
		t.Fatalf("unexpected Vector results")
	}
	for id, want := range map[TypeID]string{
		b.Vec[2]: "vec2", b.IVec[3]: "ivec3", b.BVec[4]: "bvec4", b.Mat[3]: "mat3",
		b.Sampler2D: "sampler2D", in.Array(b.Vec[4], 3): "vec4[3]",
	} {
		if got := in.Name(id); got != want {
			t.Fatalf("Name = %q, want %q", got, want)
		}
	}
}

func TestStructsAreNominal(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fields := []StructField{{Name: "a", Type: b.Float}, {Name: "b", Type: in.Array(b.Vec[2], 2)}}
	s1 := in.RegisterStruct("S", source.Span{}, fields)
	s2 := in.RegisterStruct("S", source.Span{}, fields)
	if s1 == s2 {
		t.Fatalf("each struct declaration must be a distinct type")
	}
	if idx, f, ok := in.Field(s1, "b"); !ok || idx != 1 || f.Type != in.Array(b.Vec[2], 2) {
		t.Fatalf("field lookup failed")
	}
	if in.Components(s1) != 5 {
		t.Fatalf("components = %d, want 5", in.Components(s1))
	}
	if in.Comparable(s1) {
		t.Fatalf("structs holding arrays are not comparable")
	}
	if in.Name(s1) != "S" {
		t.Fatalf("unexpected struct name %q", in.Name(s1))
	}
}

func TestArithmeticResult(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		op   token.Kind
		l, r TypeID
		want TypeID
		ok   bool
	}{
		{token.Plus, b.Float, b.Float, b.Float, true},
		{token.Plus, b.Float, b.Vec[3], b.Vec[3], true},
		{token.Minus, b.IVec[2], b.Int, b.IVec[2], true},
		{token.Star, b.Mat[4], b.Vec[4], b.Vec[4], true},
		{token.Star, b.Vec[3], b.Mat[3], b.Vec[3], true},
		{token.Star, b.Mat[2], b.Mat[2], b.Mat[2], true},
		{token.Plus, b.Mat[4], b.Vec[4], NoTypeID, false},
		{token.Star, b.Mat[3], b.Vec[4], NoTypeID, false},
		{token.Plus, b.Int, b.Float, NoTypeID, false},
		{token.Plus, b.Bool, b.Bool, NoTypeID, false},
		{token.Slash, b.Vec[2], b.Vec[3], NoTypeID, false},
	}
	for _, tc := range cases {
		got, ok := in.ArithmeticResult(tc.op, tc.l, tc.r)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s %v %s = %s,%v want %s,%v", in.Name(tc.l), tc.op, in.Name(tc.r), in.Name(got), ok, in.Name(tc.want), tc.ok)
		}
	}
	if !IsReservedOperator(token.Percent) || !IsReservedOperator(token.ShlAssign) || IsReservedOperator(token.Plus) {
		t.Fatalf("unexpected reserved operator classification")
	}
}

func TestRowsAndDescriptors(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		id   TypeID
		rows int
		glsl string
		hlsl string
	}{
		{b.Float, 1, "float", "float"},
		{b.Vec[3], 1, "vec3", "float3"},
		{b.Mat[3], 3, "mat3", "float3x3"},
		{in.Array(b.Vec[2], 4), 4, "vec2[4]", "float2"},
		{in.Array(b.Mat[2], 2), 4, "mat2[2]", "float2x2"},
	}
	for _, tc := range cases {
		d := in.Describe(tc.id)
		if in.Rows(tc.id) != tc.rows || d.Rows() != tc.rows {
			t.Fatalf("%s: rows %d/%d want %d", tc.glsl, in.Rows(tc.id), d.Rows(), tc.rows)
		}
		if d.String() != tc.glsl || d.HLSL() != tc.hlsl {
			t.Fatalf("descriptor %q/%q want %q/%q", d.String(), d.HLSL(), tc.glsl, tc.hlsl)
		}
	}
	if in.Describe(b.Float) == in.Describe(b.Vec[2]) {
		t.Fatalf("float and vec2 descriptors must differ")
	}
	// descriptors from independent interners compare equal
	other := NewInterner()
	if in.Describe(b.Vec[4]) != other.Describe(other.Builtins().Vec[4]) {
		t.Fatalf("descriptors must be interner-independent")
	}
}

func TestValueConversions(t *testing.T) {
	if FloatValue(2.9).AsInt() != 2 || FloatValue(-2.9).AsInt() != -2 {
		t.Fatalf("float to int must truncate toward zero")
	}
	if !IntValue(3).AsBool() || FloatValue(0).AsBool() {
		t.Fatalf("unexpected bool conversion")
	}
	if BoolValue(true).Convert(KindFloat).F != 1 {
		t.Fatalf("true converts to 1.0")
	}
	for v, want := range map[Value]string{
		FloatValue(1): "1.0", FloatValue(0.5): "0.5", IntValue(-7): "-7", BoolValue(false): "false",
		FloatValue(1e20): "1e+20",
	} {
		if got := v.Literal(); got != want {
			t.Fatalf("Literal() = %q, want %q", got, want)
		}
	}
	c := &Constant{Values: []Value{IntValue(1)}}
	cl := c.Clone()
	cl.Values[0] = IntValue(2)
	if v, _ := c.Scalar(); v.I != 1 {
		t.Fatalf("Clone must not alias values")
	}
}
