package sema

import (
	"math"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// UnrollThreshold is the largest iteration count that is still unrolled
// when the target supports native loops.
const UnrollThreshold = 3

// analyzeLoop checks that a for statement has the canonical form
//
//	for (T i = c0; i op c1; i++ | i-- | ++i | --i | i += c2 | i -= c2)
//
// and records the estimated iteration count and the unroll decision.
func (c *Context) analyzeLoop(n *ast.Node) error {
	index, initVal, err := c.loopInit(n)
	if err != nil {
		return err
	}
	condVal, err := c.loopCondition(n, index)
	if err != nil {
		return err
	}
	step, err := c.loopStep(n, index)
	if err != nil {
		return err
	}
	if sym := c.Symbols.Get(index); sym.Writes != 1 {
		return c.errorf(diag.LoopIndexWritten, n.Span, "loop index '%s' must be written exactly once per iteration", c.name(sym.Name))
	}

	info := &ast.LoopInfo{Index: index, Count: IterationCount(initVal, condVal, step)}
	switch {
	case !c.Level.NativeLoops():
		if info.Unbounded() {
			return c.errorf(diag.LoopUnbounded, n.Span, "loop cannot be unrolled: its iteration count is unbounded")
		}
		info.Unroll = true
	default:
		info.Unroll = info.Count <= UnrollThreshold || info.Unbounded()
	}
	n.Attr.Loop = info
	return nil
}

// IterationCount estimates floor(|init - limit| / |step|) in the index's
// own domain. A zero step is unbounded. The comparison operator is not
// taken into account.
func IterationCount(init, limit, step types.Value) int64 {
	if init.Kind == types.KindInt {
		s := absInt(int64(step.I))
		if s == 0 {
			return ast.LoopUnboundedCount
		}
		return absInt(int64(init.I)-int64(limit.I)) / s
	}
	s := math.Abs(step.F)
	if s == 0 {
		return ast.LoopUnboundedCount
	}
	count := math.Floor(math.Abs(init.F-limit.F) / s)
	if math.IsNaN(count) || count >= math.MaxInt64 {
		return ast.LoopUnboundedCount
	}
	return int64(count)
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (c *Context) loopInit(n *ast.Node) (symbols.SymbolID, types.Value, error) {
	init := n.Child(ast.ForInit)
	if init == nil || init.Kind != ast.KindDeclaratorList || init.Len() != ast.DeclListFirst+1 {
		return 0, types.Value{}, c.loopInitError(n)
	}
	d := init.Child(ast.DeclListFirst)
	expr := d.Child(ast.DeclInitializer)
	if expr != nil {
		expr = expr.Child(ast.InitExpr)
	}
	ty := d.Type
	if expr == nil || d.Child(ast.DeclArraySize) != nil ||
		(!c.Types.IsIntScalar(ty) && c.Types.Kind(ty) != types.KindFloat) ||
		!c.IsConstant(expr, false) {
		return 0, types.Value{}, c.loopInitError(n)
	}
	v, ok := c.Fold(expr)
	if !ok {
		return 0, types.Value{}, c.loopInitError(n)
	}
	val, _ := v.Scalar()
	return d.Attr.Symbol, val, nil
}

func (c *Context) loopInitError(n *ast.Node) error {
	sp := n.Span
	if init := n.Child(ast.ForInit); init != nil {
		sp = init.Span
	}
	return c.errorf(diag.LoopInvalidInit, sp, "loop initializer must declare one int or float index initialized with a constant")
}

func (c *Context) loopCondition(n *ast.Node, index symbols.SymbolID) (types.Value, error) {
	cond := n.Child(ast.ForCond)
	fail := func() (types.Value, error) {
		sp := n.Span
		if cond != nil {
			sp = cond.Span
		}
		return types.Value{}, c.errorf(diag.LoopInvalidCondition, sp, "loop condition must compare the loop index with a constant")
	}
	if cond == nil || cond.Kind != ast.KindBinary {
		return fail()
	}
	switch cond.Attr.Op {
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.BangEq:
	default:
		return fail()
	}
	l, r := cond.Child(ast.BinaryLeft), cond.Child(ast.BinaryRight)
	if !isIndex(l, index) || r.Type != l.Type || !c.IsConstant(r, false) {
		return fail()
	}
	v, ok := c.Fold(r)
	if !ok {
		return fail()
	}
	val, _ := v.Scalar()
	return val, nil
}

func (c *Context) loopStep(n *ast.Node, index symbols.SymbolID) (types.Value, error) {
	iter := n.Child(ast.ForIter)
	fail := func() (types.Value, error) {
		sp := n.Span
		if iter != nil {
			sp = iter.Span
		}
		return types.Value{}, c.errorf(diag.LoopInvalidIteration, sp, "loop iteration must be ++, --, += or -= of the loop index")
	}
	if iter == nil {
		return fail()
	}
	one := types.IntValue(1)
	if c.Types.Kind(c.Symbols.Get(index).Type) == types.KindFloat {
		one = types.FloatValue(1)
	}
	switch iter.Kind {
	case ast.KindUnary:
		if !isIndex(iter.Child(ast.UnaryOperand), index) {
			return fail()
		}
		switch iter.Attr.Op {
		case token.PlusPlus:
			return one, nil
		case token.MinusMinus:
			return scalarNeg(one), nil
		}
	case ast.KindAssignment:
		lhs, rhs := iter.Child(ast.AssignLHS), iter.Child(ast.AssignRHS)
		if !isIndex(lhs, index) || rhs.Type != lhs.Type || !c.IsConstant(rhs, false) {
			return fail()
		}
		if iter.Attr.Op != token.PlusAssign && iter.Attr.Op != token.MinusAssign {
			return fail()
		}
		v, ok := c.Fold(rhs)
		if !ok {
			return fail()
		}
		step, _ := v.Scalar()
		if iter.Attr.Op == token.MinusAssign {
			step = scalarNeg(step)
		}
		return step, nil
	}
	return fail()
}

func isIndex(n *ast.Node, index symbols.SymbolID) bool {
	return n != nil && n.Kind == ast.KindIdentifier && n.Attr.Symbol == index
}
