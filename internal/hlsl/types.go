package hlsl

import (
	"fmt"
	"strconv"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// typeName spells a non-array type. Array types spell their element; the
// dimension goes after the declared name.
func (w *Writer) typeName(id types.TypeID) string {
	in := w.c.Types
	if in.IsArray(id) {
		id = in.Elem(id)
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "void"
	}
	switch tt.Kind {
	case types.KindVoid:
		return "void"
	case types.KindBool:
		return "bool"
	case types.KindInt:
		return "int"
	case types.KindFloat:
		return "float"
	case types.KindVector:
		return in.Name(tt.Elem) + strconv.Itoa(int(tt.Count))
	case types.KindMatrix:
		return fmt.Sprintf("float%dx%d", tt.Count, tt.Count)
	case types.KindSampler2D:
		return "sampler2D"
	case types.KindSamplerCube:
		return "samplerCUBE"
	case types.KindStruct:
		if name, ok := w.structs[id]; ok {
			return name
		}
		return unnamedStruct
	}
	return "void"
}

// arraySuffix is "[N]" for arrays and empty otherwise.
func (w *Writer) arraySuffix(id types.TypeID) string {
	if n := w.c.Types.ArrayLen(id); n > 0 {
		return "[" + strconv.FormatUint(uint64(n), 10) + "]"
	}
	return ""
}

// decl renders "T name" with the array dimension attached to the name.
func (w *Writer) decl(id types.TypeID, name string) string {
	return w.typeName(id) + " " + name + w.arraySuffix(id)
}

// majority prefixes matrix declarations that carry uniform data.
func (w *Writer) majority(id types.TypeID) string {
	in := w.c.Types
	if in.IsArray(id) {
		id = in.Elem(id)
	}
	if in.IsMatrix(id) {
		return "row_major "
	}
	return ""
}

// zeroValue is an expression of type id with every component zero.
func (w *Writer) zeroValue(id types.TypeID) string {
	in := w.c.Types
	switch in.Kind(id) {
	case types.KindBool:
		return "false"
	case types.KindInt:
		return "0"
	case types.KindFloat:
		return "0.0"
	}
	return "(" + w.typeName(id) + ")0"
}
