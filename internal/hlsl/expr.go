package hlsl

import (
	"fmt"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/sema"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

const swizzleNames = "xyzw"

// expr spells an expression. Every compound expression is parenthesised,
// so operator precedence never has to be reconstructed.
func (w *Writer) expr(n *ast.Node) (string, error) {
	if n == nil {
		return "", diag.Internalf("hlsl", "missing expression")
	}
	switch n.Kind {
	case ast.KindLiteral:
		return n.Attr.Value.Literal(), nil
	case ast.KindIdentifier:
		return w.identifier(n)
	case ast.KindExpressionList:
		parts, err := w.exprs(n.Children())
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case ast.KindAssignment:
		return w.assignment(n)
	case ast.KindConditional:
		parts, err := w.exprs(n.Children())
		if err != nil {
			return "", err
		}
		return "(" + parts[0] + " ? " + parts[1] + " : " + parts[2] + ")", nil
	case ast.KindBinary:
		return w.binary(n)
	case ast.KindUnary:
		operand, err := w.expr(n.Child(ast.UnaryOperand))
		if err != nil {
			return "", err
		}
		if n.Attr.Postfix {
			return "(" + operand + n.Attr.Op.String() + ")", nil
		}
		return "(" + n.Attr.Op.String() + operand + ")", nil
	case ast.KindFunctionCall:
		return w.call(n)
	case ast.KindConstructor:
		return w.constructor(n)
	case ast.KindIndex:
		base, err := w.expr(n.Child(ast.IndexBase))
		if err != nil {
			return "", err
		}
		idx, err := w.expr(n.Child(ast.IndexExpr))
		if err != nil {
			return "", err
		}
		return base + "[" + idx + "]", nil
	case ast.KindFieldSelection:
		return w.fieldSelection(n)
	}
	return "", diag.Internalf("hlsl", "%s is not an expression", n.Kind)
}

func (w *Writer) exprs(nodes []*ast.Node) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := w.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (w *Writer) identifier(n *ast.Node) (string, error) {
	s := w.c.Symbols.Get(n.Attr.Symbol)
	if s == nil {
		return "", diag.Internalf("hlsl", "unresolved identifier")
	}
	if s.Builtin() && s.Const != nil {
		if v, ok := s.Const.Scalar(); ok {
			return v.Literal(), nil
		}
	}
	if s.HLSLName == "" {
		return "", diag.Internalf("hlsl", "identifier %s has no HLSL name", w.c.Strings.MustLookup(s.Name))
	}
	return s.HLSLName, nil
}

func (w *Writer) binary(n *ast.Node) (string, error) {
	l, r := n.Child(ast.BinaryLeft), n.Child(ast.BinaryRight)
	ls, err := w.expr(l)
	if err != nil {
		return "", err
	}
	rs, err := w.expr(r)
	if err != nil {
		return "", err
	}
	switch n.Attr.Op {
	case token.Star:
		if w.c.Types.IsLinearAlgebraMul(l.Type, r.Type) {
			return "mul(" + rs + ", " + ls + ")", nil
		}
	case token.EqEq, token.BangEq:
		return w.equality(n.Attr.Op, l.Type, ls, rs)
	case token.XorXor:
		return "(" + ls + " != " + rs + ")", nil
	}
	return "(" + ls + " " + n.Attr.Op.String() + " " + rs + ")", nil
}

// equality reduces GLSL aggregate comparison to a single bool. Vector and
// matrix operators are component-wise in HLSL; structs compare field by
// field. Operands of struct comparisons are spelled once per field.
func (w *Writer) equality(op token.Kind, ty types.TypeID, l, r string) (string, error) {
	in := w.c.Types
	switch {
	case in.IsVector(ty) || in.IsMatrix(ty):
		if op == token.EqEq {
			return "all(" + l + " == " + r + ")", nil
		}
		return "any(" + l + " != " + r + ")", nil
	case in.IsArray(ty):
		n := int(in.ArrayLen(ty))
		parts := make([]string, n)
		for i := range n {
			idx := fmt.Sprintf("[%d]", i)
			s, err := w.equality(token.EqEq, in.Elem(ty), l+idx, r+idx)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return w.joinEquality(op, parts), nil
	case in.IsStruct(ty):
		info, ok := in.StructInfo(ty)
		if !ok {
			return "", diag.Internalf("hlsl", "comparison of an unknown struct")
		}
		parts := make([]string, len(info.Fields))
		for i, f := range info.Fields {
			field := "." + w.fieldName(f.Name)
			s, err := w.equality(token.EqEq, f.Type, l+field, r+field)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return w.joinEquality(op, parts), nil
	}
	return "(" + l + " " + op.String() + " " + r + ")", nil
}

func (w *Writer) joinEquality(op token.Kind, parts []string) string {
	all := "(" + strings.Join(parts, " && ") + ")"
	if len(parts) == 0 {
		all = "true"
	}
	if op == token.BangEq {
		return "(!" + all + ")"
	}
	return all
}

func (w *Writer) assignment(n *ast.Node) (string, error) {
	lhs, rhs := n.Child(ast.AssignLHS), n.Child(ast.AssignRHS)
	ls, err := w.expr(lhs)
	if err != nil {
		return "", err
	}
	rs, err := w.expr(rhs)
	if err != nil {
		return "", err
	}
	if n.Attr.Op == token.StarAssign && w.c.Types.IsLinearAlgebraMul(lhs.Type, rhs.Type) {
		return "(" + ls + " = mul(" + rs + ", " + ls + "))", nil
	}
	return "(" + ls + " " + n.Attr.Op.String() + " " + rs + ")", nil
}

func (w *Writer) call(n *ast.Node) (string, error) {
	s := w.c.Symbols.Get(n.Attr.Symbol)
	if s == nil {
		return "", diag.Internalf("hlsl", "unresolved call")
	}
	args, err := w.exprs(n.Children())
	if err != nil {
		return "", err
	}
	switch {
	case s.Kind == symbols.SymbolStruct:
		name, err := w.structConstructor(n.Type)
		if err != nil {
			return "", err
		}
		return name + "(" + strings.Join(args, ", ") + ")", nil
	case s.Builtin():
		return w.builtinCall(n, w.c.Strings.MustLookup(s.Name), args)
	}
	return s.HLSLName + "(" + strings.Join(args, ", ") + ")", nil
}

func (w *Writer) fieldSelection(n *ast.Node) (string, error) {
	baseNode := n.Child(ast.FieldBase)
	base, err := w.expr(baseNode)
	if err != nil {
		return "", err
	}
	sel := w.c.Strings.MustLookup(n.Attr.Name)
	if w.c.Types.IsStruct(baseNode.Type) {
		return base + "." + w.fieldName(sel), nil
	}
	comps, ok := sema.Swizzle(sel)
	if !ok {
		return "", diag.Internalf("hlsl", "invalid swizzle %q after verification", sel)
	}
	var b strings.Builder
	for _, c := range comps {
		b.WriteByte(swizzleNames[c])
	}
	return base + "." + b.String(), nil
}

// constructor spells a built-in type constructor. GLSL allows the last
// argument to supply more components than needed and scalars to fill
// matrices along the diagonal; HLSL allows neither.
func (w *Writer) constructor(n *ast.Node) (string, error) {
	in := w.c.Types
	t := n.Type
	argNodes := n.Children()[ast.CtorFirstArg:]
	args, err := w.exprs(argNodes)
	if err != nil {
		return "", err
	}
	tname := w.typeName(t)
	if len(argNodes) == 1 {
		a, at := args[0], argNodes[0].Type
		switch {
		case in.IsScalar(t):
			return "((" + tname + ")" + w.firstComponent(a, at) + ")", nil
		case in.IsMatrix(t) && in.IsScalar(at):
			return w.matrixDiagonal(in.Size(t)) + "((float)" + a + ")", nil
		case in.IsMatrix(t) && in.IsMatrix(at):
			if in.Size(t) == in.Size(at) {
				return a, nil
			}
			return w.matrixResize(in.Size(t), in.Size(at)) + "(" + a + ")", nil
		case in.IsScalar(at):
			return "((" + tname + ")" + a + ")", nil
		}
	}
	need := in.Components(t)
	parts := make([]string, 0, len(args))
	for i, a := range args {
		if need <= 0 {
			break
		}
		at := argNodes[i].Type
		have := in.Components(at)
		if have <= need {
			parts = append(parts, a)
			need -= have
			continue
		}
		parts = append(parts, w.leadingComponents(a, at, need))
		need = 0
	}
	return tname + "(" + strings.Join(parts, ", ") + ")", nil
}

// firstComponent selects component 0 of a vector or matrix value.
func (w *Writer) firstComponent(a string, at types.TypeID) string {
	switch {
	case w.c.Types.IsVector(at):
		return "(" + a + ").x"
	case w.c.Types.IsMatrix(at):
		return "(" + a + ")[0][0]"
	}
	return a
}

// leadingComponents spells the first k components of a, in GLSL
// column-major order for matrices.
func (w *Writer) leadingComponents(a string, at types.TypeID, k int) string {
	in := w.c.Types
	if in.IsVector(at) {
		return "(" + a + ")." + swizzleNames[:k]
	}
	dim := in.Size(at)
	var parts []string
	for col := 0; k > 0; col++ {
		take := min(k, dim)
		if take == dim {
			parts = append(parts, fmt.Sprintf("(%s)[%d]", a, col))
		} else {
			parts = append(parts, fmt.Sprintf("(%s)[%d].%s", a, col, swizzleNames[:take]))
		}
		k -= take
	}
	return strings.Join(parts, ", ")
}
