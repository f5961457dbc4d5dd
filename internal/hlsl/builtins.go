package hlsl

import (
	"fmt"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// renamedBuiltins have a direct HLSL counterpart under another name.
var renamedBuiltins = map[string]string{
	"mix":         "lerp",
	"fract":       "frac",
	"inversesqrt": "rsqrt",
	"dFdx":        "ddx",
	"dFdy":        "ddy",
	"texture2D":   "tex2D",
	"textureCube": "texCUBE",
}

// relational built-ins become component-wise operators.
var relationalBuiltins = map[string]string{
	"lessThan":         "<",
	"lessThanEqual":    "<=",
	"greaterThan":      ">",
	"greaterThanEqual": ">=",
	"equal":            "==",
	"notEqual":         "!=",
	"matrixCompMult":   "*",
}

// builtinCall spells a call to a GLSL built-in function.
func (w *Writer) builtinCall(n *ast.Node, name string, args []string) (string, error) {
	argType := func(i int) types.TypeID { return n.Child(i).Type }
	arity := len(args)
	if op, ok := relationalBuiltins[name]; ok && arity == 2 {
		return "(" + args[0] + " " + op + " " + args[1] + ")", nil
	}
	switch name {
	case "not":
		return "(!" + args[0] + ")", nil
	case "atan":
		if arity == 2 {
			return "atan2(" + args[0] + ", " + args[1] + ")", nil
		}
	case "mod":
		return w.modHelper(argType(0), argType(1)) + "(" + args[0] + ", " + args[1] + ")", nil
	case "sign":
		if w.c.Types.IsFloatBased(n.Type) {
			return "((" + w.typeName(n.Type) + ")sign(" + args[0] + "))", nil
		}
	case "texture2D":
		if arity == 3 {
			return fmt.Sprintf("tex2Dbias(%s, float4(%s, 0.0, %s))", args[0], args[1], args[2]), nil
		}
	case "texture2DProj", "texture2DProjLod":
		q := "z"
		if w.c.Types.Size(argType(1)) == 4 {
			q = "w"
		}
		coord := fmt.Sprintf("(%s).xy / (%s).%s", args[1], args[1], q)
		switch {
		case name == "texture2DProjLod":
			return fmt.Sprintf("tex2Dlod(%s, float4(%s, 0.0, %s))", args[0], coord, args[2]), nil
		case arity == 3:
			return fmt.Sprintf("tex2Dbias(%s, float4(%s, 0.0, %s))", args[0], coord, args[2]), nil
		}
		return fmt.Sprintf("tex2Dproj(%s, float4((%s).xy, 0.0, (%s).%s))", args[0], args[1], args[1], q), nil
	case "texture2DLod":
		return fmt.Sprintf("tex2Dlod(%s, float4(%s, 0.0, %s))", args[0], args[1], args[2]), nil
	case "textureCube":
		if arity == 3 {
			return fmt.Sprintf("texCUBEbias(%s, float4(%s, %s))", args[0], args[1], args[2]), nil
		}
	case "textureCubeLod":
		return fmt.Sprintf("texCUBElod(%s, float4(%s, %s))", args[0], args[1], args[2]), nil
	}
	if arity == 0 {
		return "", diag.Internalf("hlsl", "built-in %s called without arguments", name)
	}
	if hlslName, ok := renamedBuiltins[name]; ok {
		name = hlslName
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// modHelper declares the GLSL mod overload for the argument types. HLSL
// fmod truncates towards zero; GLSL mod floors.
func (w *Writer) modHelper(x, y types.TypeID) string {
	tx, ty := w.typeName(x), w.typeName(y)
	w.need("mod "+tx+" "+ty, fmt.Sprintf(
		"%s gl_mod(%s x, %s y)\n{\n    return x - y * floor(x / y);\n}\n", tx, tx, ty))
	return "gl_mod"
}

// matrixDiagonal declares the helper building matN(s).
func (w *Writer) matrixDiagonal(dim int) string {
	name := fmt.Sprintf("gl_mat%d_diag", dim)
	comps := make([]string, 0, dim*dim)
	for col := range dim {
		for row := range dim {
			if col == row {
				comps = append(comps, "s")
			} else {
				comps = append(comps, "0.0")
			}
		}
	}
	w.need(name, fmt.Sprintf("float%dx%d %s(float s)\n{\n    return float%dx%d(%s);\n}\n",
		dim, dim, name, dim, dim, strings.Join(comps, ", ")))
	return name
}

// matrixResize declares the helper building matN(matM). GLSL columns are
// HLSL rows, so the upper-left block is copied row by row and the rest
// comes from the identity.
func (w *Writer) matrixResize(to, from int) string {
	name := fmt.Sprintf("gl_mat%d_from_mat%d", to, from)
	rows := make([]string, to)
	swz := "xyzw"
	for col := range to {
		var comps []string
		if col < from {
			n := min(to, from)
			comps = append(comps, "m["+fmt.Sprint(col)+"]."+swz[:n])
			for row := n; row < to; row++ {
				comps = append(comps, identity(col, row))
			}
		} else {
			for row := range to {
				comps = append(comps, identity(col, row))
			}
		}
		rows[col] = fmt.Sprintf("float%d(%s)", to, strings.Join(comps, ", "))
	}
	w.need(name, fmt.Sprintf("float%dx%d %s(float%dx%d m)\n{\n    return float%dx%d(%s);\n}\n",
		to, to, name, from, from, to, to, strings.Join(rows, ", ")))
	return name
}

func identity(col, row int) string {
	if col == row {
		return "1.0"
	}
	return "0.0"
}

// structConstructor declares the helper building a struct value from its
// fields in order.
func (w *Writer) structConstructor(id types.TypeID) (string, error) {
	info, ok := w.c.Types.StructInfo(id)
	if !ok {
		return "", diag.Internalf("hlsl", "constructor of a non-struct type")
	}
	sname := w.typeName(id)
	name := "gl_ctor" + sname
	params := make([]string, len(info.Fields))
	var body strings.Builder
	for i, f := range info.Fields {
		params[i] = w.decl(f.Type, fmt.Sprintf("x%d", i))
		fmt.Fprintf(&body, "    r.%s = x%d;\n", w.fieldName(f.Name), i)
	}
	w.need(name, fmt.Sprintf("%s %s(%s)\n{\n    %s r;\n%s    return r;\n}\n",
		sname, name, strings.Join(params, ", "), sname, body.String()))
	return name, nil
}

// need registers a helper definition once, in first-use order.
func (w *Writer) need(key, text string) {
	if _, ok := w.helperSeen[key]; ok {
		return
	}
	w.helperSeen[key] = struct{}{}
	w.helpers = append(w.helpers, text)
}
