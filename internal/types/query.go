package types

import (
	"fmt"
	"strconv"
)

// Scalar returns the component type of a scalar, vector or matrix.
func (in *Interner) Scalar(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	switch tt.Kind {
	case KindBool, KindInt, KindFloat:
		return id
	case KindVector, KindMatrix:
		return tt.Elem
	}
	return NoTypeID
}

// ScalarKind is the Kind of Scalar(id).
func (in *Interner) ScalarKind(id TypeID) Kind {
	return in.Kind(in.Scalar(id))
}

// Size returns 1 for scalars, the component count for vectors and the
// dimension for matrices.
func (in *Interner) Size(id TypeID) int {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case KindBool, KindInt, KindFloat:
		return 1
	case KindVector, KindMatrix:
		return int(tt.Count)
	}
	return 0
}

// Components returns the total number of scalar components in id.
func (in *Interner) Components(id TypeID) int {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case KindBool, KindInt, KindFloat:
		return 1
	case KindVector:
		return int(tt.Count)
	case KindMatrix:
		return int(tt.Count * tt.Count)
	case KindArray:
		return int(tt.Count) * in.Components(tt.Elem)
	case KindStruct:
		info, _ := in.StructInfo(id)
		n := 0
		if info != nil {
			for _, f := range info.Fields {
				n += in.Components(f.Type)
			}
		}
		return n
	}
	return 0
}

func (in *Interner) IsScalar(id TypeID) bool {
	k := in.Kind(id)
	return k == KindBool || k == KindInt || k == KindFloat
}

func (in *Interner) IsVector(id TypeID) bool { return in.Kind(id) == KindVector }
func (in *Interner) IsMatrix(id TypeID) bool { return in.Kind(id) == KindMatrix }
func (in *Interner) IsArray(id TypeID) bool  { return in.Kind(id) == KindArray }
func (in *Interner) IsStruct(id TypeID) bool { return in.Kind(id) == KindStruct }

func (in *Interner) IsSampler(id TypeID) bool {
	k := in.Kind(id)
	return k == KindSampler2D || k == KindSamplerCube
}

// IsNumeric reports int/float scalars, vectors and matrices.
func (in *Interner) IsNumeric(id TypeID) bool {
	sk := in.ScalarKind(id)
	return sk == KindInt || sk == KindFloat
}

// IsFloatBased reports float, vecN and matN.
func (in *Interner) IsFloatBased(id TypeID) bool {
	return in.ScalarKind(id) == KindFloat
}

// IsBoolScalar reports the plain bool type.
func (in *Interner) IsBoolScalar(id TypeID) bool {
	return in.Kind(id) == KindBool
}

// IsIntScalar reports the plain int type.
func (in *Interner) IsIntScalar(id TypeID) bool {
	return in.Kind(id) == KindInt
}

// Elem returns the element type of an array.
func (in *Interner) Elem(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return NoTypeID
	}
	return tt.Elem
}

// ArrayLen returns the length of an array type, 0 otherwise.
func (in *Interner) ArrayLen(id TypeID) uint32 {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return 0
	}
	return tt.Count
}

// Contains reports whether id is, or transitively holds, a type matching pred.
func (in *Interner) Contains(id TypeID, pred func(TypeID) bool) bool {
	if pred(id) {
		return true
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindArray:
		return in.Contains(tt.Elem, pred)
	case KindStruct:
		info, _ := in.StructInfo(id)
		if info == nil {
			return false
		}
		for _, f := range info.Fields {
			if in.Contains(f.Type, pred) {
				return true
			}
		}
	}
	return false
}

// Rows is the number of float4 registers a value of id occupies when
// passed as a varying: one per vector or scalar, n per matN.
func (in *Interner) Rows(id TypeID) int {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case KindBool, KindInt, KindFloat, KindVector:
		return 1
	case KindMatrix:
		return int(tt.Count)
	case KindArray:
		return int(tt.Count) * in.Rows(tt.Elem)
	}
	return 0
}

// Name renders id using GLSL spelling (vec3, mat4, S[2]).
func (in *Interner) Name(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindVoid, KindBool, KindInt, KindFloat, KindSampler2D, KindSamplerCube:
		return tt.Kind.String()
	case KindVector:
		prefix := ""
		switch in.Kind(tt.Elem) {
		case KindBool:
			prefix = "b"
		case KindInt:
			prefix = "i"
		}
		return prefix + "vec" + strconv.Itoa(int(tt.Count))
	case KindMatrix:
		return "mat" + strconv.Itoa(int(tt.Count))
	case KindStruct:
		info, _ := in.StructInfo(id)
		if info == nil || info.Name == "" {
			return "struct"
		}
		return info.Name
	case KindArray:
		return fmt.Sprintf("%s[%d]", in.Name(tt.Elem), tt.Count)
	}
	return tt.Kind.String()
}
