package types

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// Descriptor is an interner-independent description of a non-struct type.
// Two translation units have separate interners, so the stage linker
// compares Descriptors rather than TypeIDs.
type Descriptor struct {
	Kind     Kind   `msgpack:"kind"`
	Scalar   Kind   `msgpack:"scalar"`
	Size     uint8  `msgpack:"size"`
	ArrayLen uint32 `msgpack:"array_len"`
}

// Describe converts id into a Descriptor. Structs describe as KindStruct
// without their layout; they never cross the stage boundary.
func (in *Interner) Describe(id TypeID) Descriptor {
	var d Descriptor
	if in.IsArray(id) {
		d.ArrayLen = in.ArrayLen(id)
		id = in.Elem(id)
	}
	d.Kind = in.Kind(id)
	d.Scalar = in.ScalarKind(id)
	if n, err := safecast.Conv[uint8](in.Size(id)); err == nil {
		d.Size = n
	}
	return d
}

// Rows mirrors Interner.Rows.
func (d Descriptor) Rows() int {
	rows := 1
	if d.Kind == KindMatrix {
		rows = int(d.Size)
	}
	if d.ArrayLen > 0 {
		rows *= int(d.ArrayLen)
	}
	return rows
}

func (d Descriptor) base() string {
	switch d.Kind {
	case KindVector:
		prefix := ""
		switch d.Scalar {
		case KindBool:
			prefix = "b"
		case KindInt:
			prefix = "i"
		}
		return prefix + "vec" + strconv.Itoa(int(d.Size))
	case KindMatrix:
		return "mat" + strconv.Itoa(int(d.Size))
	}
	return d.Kind.String()
}

// String renders the GLSL spelling.
func (d Descriptor) String() string {
	if d.ArrayLen > 0 {
		return fmt.Sprintf("%s[%d]", d.base(), d.ArrayLen)
	}
	return d.base()
}

// HLSL renders the element type in HLSL spelling (float3, float4x4).
func (d Descriptor) HLSL() string {
	scalar := "float"
	switch d.Scalar {
	case KindInt:
		scalar = "int"
	case KindBool:
		scalar = "bool"
	}
	switch d.Kind {
	case KindVector:
		return scalar + strconv.Itoa(int(d.Size))
	case KindMatrix:
		return fmt.Sprintf("float%dx%d", d.Size, d.Size)
	}
	return scalar
}
