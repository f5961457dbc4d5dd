package sema

import (
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

var builtinFeatures = map[string]Feature{
	"gl_FragCoord":    FeatureFragCoord,
	"gl_FrontFacing":  FeatureFrontFacing,
	"gl_PointCoord":   FeaturePointCoord,
	"gl_PointSize":    FeaturePointSize,
	"gl_Position":     FeaturePosition,
	"gl_FragColor":    FeatureFragColor,
	"gl_FragData":     FeatureFragData,
	"gl_FragDepthEXT": FeatureFragDepth,
	"dFdx":            FeatureDerivatives,
	"dFdy":            FeatureDerivatives,
	"fwidth":          FeatureDerivatives,
}

// useBuiltin gates extension symbols and records the features they need.
func (c *Context) useBuiltin(n *ast.Node, sym *symbols.Symbol) error {
	if !sym.Builtin() {
		return nil
	}
	if ext := sym.Extension; ext != "" {
		if !c.Extensions.Enabled(ext) {
			return c.errorf(diag.SemaExtensionDisabled, n.Span, "'%s' requires extension %s", c.name(sym.Name), ext)
		}
		if c.Extensions.Warn(ext) {
			c.warnf(diag.PreExtensionWarning, n.Span, "'%s' uses extension %s", c.name(sym.Name), ext)
		}
	}
	c.Features |= builtinFeatures[c.name(sym.Name)]
	return nil
}

func (c *Context) literalType(n *ast.Node) types.TypeID {
	b := c.Types.Builtins()
	switch n.Attr.Value.Kind {
	case types.KindBool:
		return b.Bool
	case types.KindInt:
		return b.Int
	case types.KindFloat:
		return b.Float
	}
	return b.Invalid
}

func (c *Context) verifyExpressionList(n *ast.Node) error {
	if n.Len() == 0 {
		return diag.Internalf("verify", "empty expression list")
	}
	n.Type = n.Child(n.Len() - 1).Type
	return nil
}

func (c *Context) verifyIdentifier(n *ast.Node) error {
	id := c.Symbols.Lookup(c.scope(), n.Attr.Name)
	sym := c.Symbols.Get(id)
	if sym == nil {
		return c.errorf(diag.SemaUndeclaredIdentifier, n.Span, "'%s' is not declared", c.name(n.Attr.Name))
	}
	if sym.Kind != symbols.SymbolVariable && sym.Kind != symbols.SymbolParam {
		return c.errorf(diag.SemaNotAVariable, n.Span, "'%s' is a %s, not a variable", c.name(n.Attr.Name), sym.Kind)
	}
	if err := c.useBuiltin(n, sym); err != nil {
		return err
	}
	c.Symbols.MarkRead(id)
	n.Attr.Symbol = id
	n.Type = sym.Type
	return nil
}

func (c *Context) verifyUnary(n *ast.Node) error {
	operand, err := require(n, ast.UnaryOperand)
	if err != nil {
		return err
	}
	t := operand.Type
	switch n.Attr.Op {
	case token.Plus, token.Minus:
		if !c.Types.IsNumeric(t) {
			return c.errorf(diag.SemaInvalidUnaryOperand, n.Span, "unary '%s' needs a numeric operand, got '%s'", n.Attr.Op, c.typeName(t))
		}
	case token.Bang:
		if !c.Types.IsBoolScalar(t) {
			return c.errorf(diag.SemaInvalidUnaryOperand, n.Span, "'!' needs a bool operand, got '%s'", c.typeName(t))
		}
	case token.PlusPlus, token.MinusMinus:
		if !c.Types.IsNumeric(t) {
			return c.errorf(diag.SemaInvalidUnaryOperand, n.Span, "'%s' needs a numeric operand, got '%s'", n.Attr.Op, c.typeName(t))
		}
		if err := c.markWritten(operand); err != nil {
			return err
		}
	case token.Tilde:
		return c.errorf(diag.SemaReservedOperator, n.Span, "operator '~' is reserved")
	default:
		return diag.Internalf("verify", "unary operator %s", n.Attr.Op)
	}
	n.Type = t
	return nil
}

func (c *Context) verifyBinary(n *ast.Node) error {
	l, err := require(n, ast.BinaryLeft)
	if err != nil {
		return err
	}
	r, err := require(n, ast.BinaryRight)
	if err != nil {
		return err
	}
	op := n.Attr.Op
	if types.IsReservedOperator(op) {
		return c.errorf(diag.SemaReservedOperator, n.Span, "operator '%s' is reserved", op)
	}
	b := c.Types.Builtins()
	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash:
		res, ok := c.Types.ArithmeticResult(op, l.Type, r.Type)
		if !ok {
			return c.operandError(n, l, r)
		}
		n.Type = res
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if l.Type != r.Type || !c.Types.IsScalar(l.Type) || c.Types.IsBoolScalar(l.Type) {
			return c.operandError(n, l, r)
		}
		n.Type = b.Bool
	case token.EqEq, token.BangEq:
		if l.Type != r.Type || !c.Types.Comparable(l.Type) {
			return c.operandError(n, l, r)
		}
		n.Type = b.Bool
	case token.AndAnd, token.OrOr, token.XorXor:
		if !c.Types.IsBoolScalar(l.Type) || !c.Types.IsBoolScalar(r.Type) {
			return c.operandError(n, l, r)
		}
		n.Type = b.Bool
	default:
		return diag.Internalf("verify", "binary operator %s", op)
	}
	return nil
}

func (c *Context) operandError(n, l, r *ast.Node) error {
	return c.errorf(diag.SemaInvalidOperands, n.Span, "invalid operands to '%s': '%s' and '%s'",
		n.Attr.Op, c.typeName(l.Type), c.typeName(r.Type))
}

// compoundOps maps compound assignments to their arithmetic operator.
var compoundOps = map[token.Kind]token.Kind{
	token.PlusAssign:  token.Plus,
	token.MinusAssign: token.Minus,
	token.StarAssign:  token.Star,
	token.SlashAssign: token.Slash,
}

func (c *Context) verifyAssignment(n *ast.Node) error {
	lhs, err := require(n, ast.AssignLHS)
	if err != nil {
		return err
	}
	rhs, err := require(n, ast.AssignRHS)
	if err != nil {
		return err
	}
	op := n.Attr.Op
	if types.IsReservedOperator(op) {
		return c.errorf(diag.SemaReservedOperator, n.Span, "operator '%s' is reserved", op)
	}
	if op == token.Assign {
		if lhs.Type != rhs.Type {
			return c.errorf(diag.SemaTypeMismatch, n.Span, "cannot assign '%s' to '%s'", c.typeName(rhs.Type), c.typeName(lhs.Type))
		}
		if !c.Types.Assignable(lhs.Type) {
			return c.errorf(diag.SemaNotLValue, lhs.Span, "values of type '%s' cannot be assigned", c.typeName(lhs.Type))
		}
	} else {
		arith, ok := compoundOps[op]
		if !ok {
			return diag.Internalf("verify", "assignment operator %s", op)
		}
		res, ok := c.Types.ArithmeticResult(arith, lhs.Type, rhs.Type)
		if !ok || res != lhs.Type {
			return c.errorf(diag.SemaInvalidOperands, n.Span, "invalid operands to '%s': '%s' and '%s'",
				op, c.typeName(lhs.Type), c.typeName(rhs.Type))
		}
	}
	if err := c.markWritten(lhs); err != nil {
		return err
	}
	n.Type = lhs.Type
	return nil
}

func (c *Context) verifyConditional(n *ast.Node) error {
	test, err := require(n, ast.CondTest)
	if err != nil {
		return err
	}
	t, err := require(n, ast.CondTrue)
	if err != nil {
		return err
	}
	f, err := require(n, ast.CondFalse)
	if err != nil {
		return err
	}
	if !c.Types.IsBoolScalar(test.Type) {
		return c.errorf(diag.SemaConditionNotBool, test.Span, "condition must be a bool, got '%s'", c.typeName(test.Type))
	}
	if t.Type != f.Type {
		return c.errorf(diag.SemaTernaryTypeMismatch, n.Span, "'?:' operands have different types: '%s' and '%s'",
			c.typeName(t.Type), c.typeName(f.Type))
	}
	if c.Types.Kind(t.Type) == types.KindVoid || c.Types.IsArray(t.Type) || c.Types.Contains(t.Type, c.Types.IsSampler) {
		return c.errorf(diag.SemaTernaryOperandType, n.Span, "'?:' cannot select values of type '%s'", c.typeName(t.Type))
	}
	n.Type = t.Type
	return nil
}

// args returns the argument children of a call or constructor.
func args(n *ast.Node, first int) []*ast.Node {
	kids := n.Children()
	if len(kids) <= first {
		return nil
	}
	return kids[first:]
}

func (c *Context) argList(list []*ast.Node) string {
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = c.typeName(a.Type)
	}
	return strings.Join(names, ", ")
}

func (c *Context) verifyCall(n *ast.Node) error {
	name := c.name(n.Attr.Name)
	cands := c.Symbols.Overloads(c.scope(), n.Attr.Name)
	if len(cands) == 0 {
		return c.errorf(diag.SemaUndeclaredIdentifier, n.Span, "no function named '%s'", name)
	}
	actual := args(n, 0)
	first := c.Symbols.Get(cands[0])
	switch first.Kind {
	case symbols.SymbolStruct:
		return c.verifyStructConstructor(n, cands[0], first, actual)
	case symbols.SymbolFunction:
	default:
		return c.errorf(diag.SemaNotAFunction, n.Span, "'%s' is not a function", name)
	}

	var match symbols.SymbolID
	for _, id := range cands {
		sig := c.Symbols.Get(id).Signature
		if sig == nil || len(sig.Params) != len(actual) {
			continue
		}
		ok := true
		for i, p := range sig.Params {
			if p.Type != actual[i].Type {
				ok = false
				break
			}
		}
		if ok {
			match = id
			break
		}
	}
	if !match.IsValid() {
		return c.errorf(diag.SemaNoMatchingFunction, n.Span, "no matching overload for '%s(%s)'", name, c.argList(actual))
	}
	sym := c.Symbols.Get(match)
	if err := c.useBuiltin(n, sym); err != nil {
		return err
	}
	for i, p := range sym.Signature.Params {
		if p.Qual.Writable() {
			if err := c.markWritten(actual[i]); err != nil {
				return err
			}
		}
	}
	if !sym.Builtin() {
		if c.fn != nil {
			c.calls[c.fn.sym] = append(c.calls[c.fn.sym], match)
		}
		if _, seen := c.callSite[match]; !seen {
			c.callSite[match] = n
		}
	}
	c.Symbols.MarkRead(match)
	n.Attr.Symbol = match
	n.Type = sym.Signature.Result
	return nil
}

func (c *Context) verifyStructConstructor(n *ast.Node, id symbols.SymbolID, sym *symbols.Symbol, actual []*ast.Node) error {
	info, ok := c.Types.StructInfo(sym.Type)
	if !ok {
		return diag.Internalf("verify", "struct symbol without struct type")
	}
	if len(actual) != len(info.Fields) {
		return c.errorf(diag.SemaConstructorArgs, n.Span, "constructor for '%s' needs %d arguments, got %d",
			info.Name, len(info.Fields), len(actual))
	}
	for i, f := range info.Fields {
		if actual[i].Type != f.Type {
			return c.errorf(diag.SemaConstructorArgs, actual[i].Span, "argument %d of '%s' constructor must be '%s', got '%s'",
				i+1, info.Name, c.typeName(f.Type), c.typeName(actual[i].Type))
		}
	}
	n.Attr.Symbol = id
	n.Type = sym.Type
	return nil
}

func (c *Context) verifyConstructor(n *ast.Node) error {
	spec, err := require(n, ast.CtorType)
	if err != nil {
		return err
	}
	t := spec.Type
	actual := args(n, ast.CtorFirstArg)
	if !c.Types.IsScalar(t) && !c.Types.IsVector(t) && !c.Types.IsMatrix(t) {
		return c.errorf(diag.SemaConstructorArgs, n.Span, "cannot construct values of type '%s'", c.typeName(t))
	}
	if len(actual) == 0 {
		return c.errorf(diag.SemaConstructorArgs, n.Span, "constructor for '%s' needs arguments", c.typeName(t))
	}
	var matrixArg bool
	for _, a := range actual {
		at := a.Type
		if !c.Types.IsScalar(at) && !c.Types.IsVector(at) && !c.Types.IsMatrix(at) {
			return c.errorf(diag.SemaConstructorArgs, a.Span, "cannot construct '%s' from '%s'", c.typeName(t), c.typeName(at))
		}
		matrixArg = matrixArg || c.Types.IsMatrix(at)
	}
	n.Type = t
	if len(actual) == 1 {
		return nil
	}
	if c.Types.IsScalar(t) {
		return c.errorf(diag.SemaConstructorArgs, n.Span, "too many arguments to '%s' constructor", c.typeName(t))
	}
	if c.Types.IsMatrix(t) && matrixArg {
		return c.errorf(diag.SemaConstructorArgs, n.Span, "a matrix argument must be the only argument of a matrix constructor")
	}
	want := c.Types.Components(t)
	have := 0
	for i, a := range actual {
		if have >= want {
			return c.errorf(diag.SemaConstructorArgs, actual[i].Span, "too many arguments to '%s' constructor", c.typeName(t))
		}
		have += c.Types.Components(a.Type)
	}
	if have < want {
		return c.errorf(diag.SemaConstructorArgs, n.Span, "not enough data provided for '%s' constructor", c.typeName(t))
	}
	return nil
}

func (c *Context) verifyIndex(n *ast.Node) error {
	base, err := require(n, ast.IndexBase)
	if err != nil {
		return err
	}
	idx, err := require(n, ast.IndexExpr)
	if err != nil {
		return err
	}
	if !c.Types.IsIntScalar(idx.Type) {
		return c.errorf(diag.SemaIndexNotInt, idx.Span, "index must be an int, got '%s'", c.typeName(idx.Type))
	}
	bt := base.Type
	var length int
	switch {
	case c.Types.IsArray(bt):
		n.Type = c.Types.Elem(bt)
		length = int(c.Types.ArrayLen(bt))
	case c.Types.IsVector(bt):
		n.Type = c.Types.Scalar(bt)
		length = c.Types.Size(bt)
	case c.Types.IsMatrix(bt):
		n.Type = c.Types.Vector(c.Types.Scalar(bt), c.Types.Size(bt))
		length = c.Types.Size(bt)
	default:
		return c.errorf(diag.SemaNotIndexable, base.Span, "values of type '%s' cannot be indexed", c.typeName(bt))
	}
	if c.IsConstant(idx, false) {
		if v, ok := c.Fold(idx); ok {
			if i, _ := v.Scalar(); i.I < 0 || int(i.I) >= length {
				return c.errorf(diag.SemaIndexOutOfRange, idx.Span, "index %d is out of range for '%s'", i.I, c.typeName(bt))
			}
		}
	}
	if c.Types.IsSampler(n.Type) && !c.IsConstant(idx, true) {
		return c.errorf(diag.SemaSamplerMisuse, idx.Span, "sampler arrays must be indexed by a constant-index-expression")
	}
	return nil
}

var swizzleSets = [...]string{"xyzw", "rgba", "stpq"}

// Swizzle decodes a component selection such as "xy" or "rgba" into
// component indices. All letters must come from one naming set.
func Swizzle(sel string) ([]int, bool) {
	if len(sel) == 0 || len(sel) > 4 {
		return nil, false
	}
	for _, set := range swizzleSets {
		if !strings.ContainsRune(set, rune(sel[0])) {
			continue
		}
		out := make([]int, len(sel))
		for i := 0; i < len(sel); i++ {
			j := strings.IndexByte(set, sel[i])
			if j < 0 {
				return nil, false
			}
			out[i] = j
		}
		return out, true
	}
	return nil, false
}

func (c *Context) verifyFieldSelection(n *ast.Node) error {
	base, err := require(n, ast.FieldBase)
	if err != nil {
		return err
	}
	sel := c.name(n.Attr.Name)
	bt := base.Type
	switch {
	case c.Types.IsStruct(bt):
		_, f, ok := c.Types.Field(bt, sel)
		if !ok {
			return c.errorf(diag.SemaNoSuchField, n.Span, "'%s' has no field '%s'", c.typeName(bt), sel)
		}
		n.Type = f.Type
	case c.Types.IsVector(bt):
		comps, ok := Swizzle(sel)
		if !ok {
			return c.errorf(diag.SemaInvalidSwizzle, n.Span, "invalid swizzle '%s'", sel)
		}
		for _, i := range comps {
			if i >= c.Types.Size(bt) {
				return c.errorf(diag.SemaInvalidSwizzle, n.Span, "swizzle '%s' is out of range for '%s'", sel, c.typeName(bt))
			}
		}
		if len(comps) == 1 {
			n.Type = c.Types.Scalar(bt)
		} else {
			n.Type = c.Types.Vector(c.Types.Scalar(bt), len(comps))
		}
	default:
		return c.errorf(diag.SemaNoSuchField, n.Span, "cannot select '%s' from '%s'", sel, c.typeName(bt))
	}
	return nil
}

func (c *Context) verifyCondition(cond *ast.Node) error {
	if cond == nil {
		return nil
	}
	if !c.Types.IsBoolScalar(cond.Type) {
		return c.errorf(diag.SemaConditionNotBool, cond.Span, "condition must be a bool, got '%s'", c.typeName(cond.Type))
	}
	return nil
}

func (c *Context) verifyJump(n *ast.Node) error {
	switch n.Attr.Op {
	case token.KwBreak, token.KwContinue:
		if !n.InsideLoop() {
			return c.errorf(diag.SemaBreakOutsideLoop, n.Span, "'%s' outside of a loop", n.Attr.Op)
		}
	case token.KwDiscard:
		if c.Stage != target.Fragment {
			return c.errorf(diag.SemaDiscardInVertex, n.Span, "'discard' is only allowed in fragment shaders")
		}
		c.Features |= FeatureDiscard
	case token.KwReturn:
		if c.fn == nil {
			return diag.Internalf("verify", "return outside a function body")
		}
		value := n.Child(ast.JumpValue)
		void := c.Types.Kind(c.fn.result) == types.KindVoid
		switch {
		case value == nil && !void:
			return c.errorf(diag.SemaReturnType, n.Span, "function must return '%s'", c.typeName(c.fn.result))
		case value != nil && void:
			return c.errorf(diag.SemaReturnType, value.Span, "void function cannot return a value")
		case value != nil && value.Type != c.fn.result:
			return c.errorf(diag.SemaReturnType, value.Span, "returning '%s' from a function returning '%s'",
				c.typeName(value.Type), c.typeName(c.fn.result))
		}
	default:
		return diag.Internalf("verify", "jump keyword %s", n.Attr.Op)
	}
	return nil
}

func (c *Context) verifyFor(n *ast.Node) error {
	if err := c.verifyCondition(n.Child(ast.ForCond)); err != nil {
		return err
	}
	return c.analyzeLoop(n)
}
