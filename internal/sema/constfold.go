package sema

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// IsConstant reports whether n is a constant expression. With
// allowLoopIndex the loop index of an enclosing canonical for loop also
// counts, which is what constant-index-expressions need.
//
// Calls to non-texture built-ins are constant when their arguments are but
// are never folded; a conditional is constant but never folded either.
func (c *Context) IsConstant(n *ast.Node, allowLoopIndex bool) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindLiteral:
		return true
	case ast.KindIdentifier:
		sym := c.Symbols.Get(n.Attr.Symbol)
		if sym == nil {
			return false
		}
		if sym.Qual == symbols.QualConst {
			return true
		}
		return allowLoopIndex && sym.Flags&symbols.SymbolFlagLoopIndex != 0
	case ast.KindUnary:
		if n.Attr.Op == token.PlusPlus || n.Attr.Op == token.MinusMinus {
			return false
		}
		return c.IsConstant(n.Child(ast.UnaryOperand), allowLoopIndex)
	case ast.KindFunctionCall:
		sym := c.Symbols.Get(n.Attr.Symbol)
		if sym == nil {
			return false
		}
		switch {
		case sym.Kind == symbols.SymbolStruct:
		case sym.Builtin() && !IsTextureFunction(c.name(sym.Name)):
		default:
			return false
		}
		fallthrough
	case ast.KindBinary, ast.KindConstructor, ast.KindIndex, ast.KindFieldSelection, ast.KindConditional:
		ok := true
		for _, ch := range n.Children() {
			if ch == nil || ch.Kind == ast.KindTypeSpecifier {
				continue
			}
			if !c.IsConstant(ch, allowLoopIndex) {
				ok = false
				break
			}
		}
		return ok
	}
	return false
}

// Fold evaluates a constant expression and caches the result on n.
func (c *Context) Fold(n *ast.Node) (*types.Constant, bool) {
	if n == nil {
		return nil, false
	}
	if n.Const != nil {
		return n.Const, true
	}
	v, ok := c.fold(n)
	if !ok {
		return nil, false
	}
	n.Const = v
	return v, true
}

func (c *Context) fold(n *ast.Node) (*types.Constant, bool) {
	switch n.Kind {
	case ast.KindLiteral:
		return &types.Constant{Type: n.Type, Values: []types.Value{n.Attr.Value}}, true
	case ast.KindIdentifier:
		sym := c.Symbols.Get(n.Attr.Symbol)
		if sym == nil || sym.Qual != symbols.QualConst || sym.Const == nil {
			return nil, false
		}
		return sym.Const.Clone(), true
	case ast.KindUnary:
		return c.foldUnary(n)
	case ast.KindBinary:
		return c.foldBinary(n)
	case ast.KindConstructor:
		return c.foldConstructor(n)
	case ast.KindIndex:
		return c.foldIndex(n)
	case ast.KindFieldSelection:
		return c.foldSwizzle(n)
	}
	return nil, false
}

func (c *Context) foldUnary(n *ast.Node) (*types.Constant, bool) {
	v, ok := c.Fold(n.Child(ast.UnaryOperand))
	if !ok {
		return nil, false
	}
	out := &types.Constant{Type: n.Type, Values: make([]types.Value, len(v.Values))}
	for i, x := range v.Values {
		switch n.Attr.Op {
		case token.Plus:
			out.Values[i] = x
		case token.Minus:
			out.Values[i] = scalarNeg(x)
		case token.Bang:
			out.Values[i] = types.BoolValue(!x.B)
		default:
			return nil, false
		}
	}
	return out, true
}

func scalarNeg(v types.Value) types.Value {
	if v.Kind == types.KindInt {
		return types.IntValue(-v.I)
	}
	return types.FloatValue(-v.F)
}

func scalarArith(op token.Kind, l, r types.Value) (types.Value, bool) {
	if l.Kind == types.KindInt {
		switch op {
		case token.Plus:
			return types.IntValue(l.I + r.I), true
		case token.Minus:
			return types.IntValue(l.I - r.I), true
		case token.Star:
			return types.IntValue(l.I * r.I), true
		case token.Slash:
			if r.I == 0 {
				return types.Value{}, false
			}
			return types.IntValue(l.I / r.I), true
		}
		return types.Value{}, false
	}
	switch op {
	case token.Plus:
		return types.FloatValue(l.F + r.F), true
	case token.Minus:
		return types.FloatValue(l.F - r.F), true
	case token.Star:
		return types.FloatValue(l.F * r.F), true
	case token.Slash:
		return types.FloatValue(l.F / r.F), true
	}
	return types.Value{}, false
}

func scalarLess(l, r types.Value) bool {
	if l.Kind == types.KindInt {
		return l.I < r.I
	}
	return l.F < r.F
}

// expand replicates a scalar constant to n components.
func expand(v *types.Constant, n int) []types.Value {
	if len(v.Values) == 1 && n > 1 {
		out := make([]types.Value, n)
		for i := range out {
			out[i] = v.Values[0]
		}
		return out
	}
	return v.Values
}

func (c *Context) foldBinary(n *ast.Node) (*types.Constant, bool) {
	l, lok := c.Fold(n.Child(ast.BinaryLeft))
	r, rok := c.Fold(n.Child(ast.BinaryRight))
	if !lok || !rok {
		return nil, false
	}
	op := n.Attr.Op
	lt, rt := n.Child(ast.BinaryLeft).Type, n.Child(ast.BinaryRight).Type
	switch op {
	case token.Star:
		if c.Types.IsLinearAlgebraMul(lt, rt) {
			return c.foldMatMul(n.Type, lt, rt, l, r)
		}
		fallthrough
	case token.Plus, token.Minus, token.Slash:
		size := max(len(l.Values), len(r.Values))
		lv, rv := expand(l, size), expand(r, size)
		out := &types.Constant{Type: n.Type, Values: make([]types.Value, size)}
		for i := range size {
			v, ok := scalarArith(op, lv[i], rv[i])
			if !ok {
				return nil, false
			}
			out.Values[i] = v
		}
		return out, true
	case token.Lt, token.GtEq:
		less := scalarLess(l.Values[0], r.Values[0])
		return boolConst(n.Type, less == (op == token.Lt)), true
	case token.Gt, token.LtEq:
		greater := scalarLess(r.Values[0], l.Values[0])
		return boolConst(n.Type, greater == (op == token.Gt)), true
	case token.EqEq, token.BangEq:
		eq := len(l.Values) == len(r.Values)
		for i := 0; eq && i < len(l.Values); i++ {
			eq = l.Values[i] == r.Values[i]
		}
		return boolConst(n.Type, eq == (op == token.EqEq)), true
	case token.AndAnd:
		return boolConst(n.Type, l.Values[0].B && r.Values[0].B), true
	case token.OrOr:
		return boolConst(n.Type, l.Values[0].B || r.Values[0].B), true
	case token.XorXor:
		return boolConst(n.Type, l.Values[0].B != r.Values[0].B), true
	}
	return nil, false
}

func boolConst(t types.TypeID, b bool) *types.Constant {
	return &types.Constant{Type: t, Values: []types.Value{types.BoolValue(b)}}
}

// foldMatMul folds linear-algebra products. Matrices are column-major:
// element (col, row) lives at col*dim + row.
func (c *Context) foldMatMul(res, lt, rt types.TypeID, l, r *types.Constant) (*types.Constant, bool) {
	dim := c.Types.Size(lt)
	if c.Types.IsVector(lt) {
		dim = c.Types.Size(rt)
	}
	out := &types.Constant{Type: res, Values: make([]types.Value, c.Types.Components(res))}
	dot := func(get func(k int) (float64, float64)) types.Value {
		var sum float64
		for k := range dim {
			a, b := get(k)
			sum += a * b
		}
		return types.FloatValue(sum)
	}
	switch {
	case c.Types.IsMatrix(lt) && c.Types.IsMatrix(rt):
		for col := range dim {
			for row := range dim {
				out.Values[col*dim+row] = dot(func(k int) (float64, float64) {
					return l.Values[k*dim+row].F, r.Values[col*dim+k].F
				})
			}
		}
	case c.Types.IsMatrix(lt):
		for row := range dim {
			out.Values[row] = dot(func(k int) (float64, float64) {
				return l.Values[k*dim+row].F, r.Values[k].F
			})
		}
	default:
		for col := range dim {
			out.Values[col] = dot(func(k int) (float64, float64) {
				return l.Values[k].F, r.Values[col*dim+k].F
			})
		}
	}
	return out, true
}

func (c *Context) foldConstructor(n *ast.Node) (*types.Constant, bool) {
	var comps []types.Value
	var single *types.Constant
	actual := args(n, ast.CtorFirstArg)
	for _, a := range actual {
		v, ok := c.Fold(a)
		if !ok {
			return nil, false
		}
		single = v
		comps = append(comps, v.Values...)
	}
	t := n.Type
	kind := c.Types.ScalarKind(t)
	want := c.Types.Components(t)
	out := &types.Constant{Type: t, Values: make([]types.Value, want)}
	switch {
	case len(comps) == 1 && c.Types.IsMatrix(t):
		dim := c.Types.Size(t)
		zero := types.FloatValue(0)
		for i := range out.Values {
			out.Values[i] = zero
		}
		for i := range dim {
			out.Values[i*dim+i] = comps[0].Convert(kind)
		}
	case len(actual) == 1 && c.Types.IsMatrix(t) && c.Types.IsMatrix(single.Type):
		dim, src := c.Types.Size(t), c.Types.Size(single.Type)
		for col := range dim {
			for row := range dim {
				v := types.FloatValue(0)
				switch {
				case col < src && row < src:
					v = single.Values[col*src+row]
				case col == row:
					v = types.FloatValue(1)
				}
				out.Values[col*dim+row] = v
			}
		}
	case len(comps) == 1:
		for i := range out.Values {
			out.Values[i] = comps[0].Convert(kind)
		}
	default:
		if len(comps) < want {
			return nil, false
		}
		for i := range out.Values {
			out.Values[i] = comps[i].Convert(kind)
		}
	}
	return out, true
}

func (c *Context) foldIndex(n *ast.Node) (*types.Constant, bool) {
	base, ok := c.Fold(n.Child(ast.IndexBase))
	if !ok {
		return nil, false
	}
	idx, ok := c.Fold(n.Child(ast.IndexExpr))
	if !ok {
		return nil, false
	}
	i := int(idx.Values[0].I)
	width := c.Types.Components(n.Type)
	if i < 0 || (i+1)*width > len(base.Values) {
		return nil, false
	}
	return &types.Constant{Type: n.Type, Values: append([]types.Value(nil), base.Values[i*width:(i+1)*width]...)}, true
}

func (c *Context) foldSwizzle(n *ast.Node) (*types.Constant, bool) {
	base := n.Child(ast.FieldBase)
	if !c.Types.IsVector(base.Type) {
		return nil, false
	}
	v, ok := c.Fold(base)
	if !ok {
		return nil, false
	}
	comps, ok := Swizzle(c.name(n.Attr.Name))
	if !ok {
		return nil, false
	}
	out := &types.Constant{Type: n.Type, Values: make([]types.Value, len(comps))}
	for i, j := range comps {
		if j >= len(v.Values) {
			return nil, false
		}
		out.Values[i] = v.Values[j]
	}
	return out, true
}
