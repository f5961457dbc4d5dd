package sema

import (
	"strings"

	"fortio.org/safecast"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// checkName rejects identifiers reserved for the implementation.
func (c *Context) checkName(id source.StringID, sp source.Span) error {
	s := c.name(id)
	switch {
	case strings.HasPrefix(s, "gl_"):
		return c.errorf(diag.SemaReservedName, sp, "'%s': identifiers starting with 'gl_' are reserved", s)
	case strings.HasPrefix(s, "webgl_"), strings.HasPrefix(s, "_webgl_"):
		return c.errorf(diag.SemaReservedName, sp, "'%s': identifiers starting with 'webgl_' are reserved", s)
	case strings.Contains(s, "__"):
		c.warnf(diag.SemaReservedName, sp, "'%s': identifiers containing '__' are reserved", s)
	}
	return nil
}

func (c *Context) redeclared(prev symbols.SymbolID, name source.StringID, sp source.Span) error {
	if ps := c.Symbols.Get(prev); ps != nil && !ps.Builtin() {
		return c.errorNote(diag.SemaRedeclaration, sp, ps.Span, "previous declaration is here",
			"'%s' is already declared in this scope", c.name(name))
	}
	return c.errorf(diag.SemaRedeclaration, sp, "'%s' is already declared in this scope", c.name(name))
}

var keywordTypes = map[token.Kind]func(types.Builtins) types.TypeID{
	token.KwVoid:        func(b types.Builtins) types.TypeID { return b.Void },
	token.KwBool:        func(b types.Builtins) types.TypeID { return b.Bool },
	token.KwInt:         func(b types.Builtins) types.TypeID { return b.Int },
	token.KwFloat:       func(b types.Builtins) types.TypeID { return b.Float },
	token.KwVec2:        func(b types.Builtins) types.TypeID { return b.Vec[2] },
	token.KwVec3:        func(b types.Builtins) types.TypeID { return b.Vec[3] },
	token.KwVec4:        func(b types.Builtins) types.TypeID { return b.Vec[4] },
	token.KwBvec2:       func(b types.Builtins) types.TypeID { return b.BVec[2] },
	token.KwBvec3:       func(b types.Builtins) types.TypeID { return b.BVec[3] },
	token.KwBvec4:       func(b types.Builtins) types.TypeID { return b.BVec[4] },
	token.KwIvec2:       func(b types.Builtins) types.TypeID { return b.IVec[2] },
	token.KwIvec3:       func(b types.Builtins) types.TypeID { return b.IVec[3] },
	token.KwIvec4:       func(b types.Builtins) types.TypeID { return b.IVec[4] },
	token.KwMat2:        func(b types.Builtins) types.TypeID { return b.Mat[2] },
	token.KwMat3:        func(b types.Builtins) types.TypeID { return b.Mat[3] },
	token.KwMat4:        func(b types.Builtins) types.TypeID { return b.Mat[4] },
	token.KwSampler2D:   func(b types.Builtins) types.TypeID { return b.Sampler2D },
	token.KwSamplerCube: func(b types.Builtins) types.TypeID { return b.SamplerCube },
}

func (c *Context) verifyTypeSpecifier(n *ast.Node) error {
	switch n.Attr.Op {
	case token.KwStruct:
		st, err := require(n, ast.TypeSpecStruct)
		if err != nil {
			return err
		}
		n.Type = st.Type
	case token.Ident:
		id := c.Symbols.Lookup(c.scope(), n.Attr.Name)
		sym := c.Symbols.Get(id)
		if sym == nil || sym.Kind != symbols.SymbolStruct {
			return c.errorf(diag.SemaUndeclaredIdentifier, n.Span, "'%s' does not name a type", c.name(n.Attr.Name))
		}
		n.Type = sym.Type
	default:
		mk, ok := keywordTypes[n.Attr.Op]
		if !ok {
			return diag.Internalf("verify", "type specifier with token %s", n.Attr.Op)
		}
		n.Type = mk(c.Types.Builtins())
	}
	parent := n.Parent()
	if n.Attr.Precision != types.PrecisionNone {
		sk := c.Types.ScalarKind(n.Type)
		if sk != types.KindInt && sk != types.KindFloat && !c.Types.IsSampler(n.Type) {
			return c.errorf(diag.SemaPrecisionType, n.Span, "precision qualifier is not allowed on type '%s'", c.typeName(n.Type))
		}
	}
	if parent != nil && (parent.Kind == ast.KindConstructor || parent.Kind == ast.KindPrecisionDeclaration) {
		return nil
	}
	if c.Stage == target.Fragment && n.Attr.Precision == types.PrecisionNone &&
		c.frame().floatPrec == types.PrecisionNone && c.Types.ScalarKind(n.Type) == types.KindFloat &&
		!c.Types.IsStruct(n.Type) {
		return c.errorf(diag.SemaMissingPrecision, n.Span, "no precision specified for '%s'", c.typeName(n.Type))
	}
	return nil
}

// precisionOf resolves the effective precision of a type specifier.
func (c *Context) precisionOf(spec *ast.Node) types.Precision {
	if spec == nil {
		return types.PrecisionNone
	}
	if spec.Attr.Precision != types.PrecisionNone {
		return spec.Attr.Precision
	}
	switch c.Types.ScalarKind(spec.Type) {
	case types.KindFloat:
		return c.frame().floatPrec
	case types.KindInt:
		return c.frame().intPrec
	}
	if c.Types.IsSampler(spec.Type) {
		return types.PrecisionLow
	}
	return types.PrecisionNone
}

func (c *Context) verifyFullType(n *ast.Node) error {
	spec, err := require(n, ast.FullTypeSpec)
	if err != nil {
		return err
	}
	n.Type = spec.Type
	return nil
}

func (c *Context) verifyArraySize(n *ast.Node) error {
	expr, err := require(n, ast.ArraySizeExp)
	if err != nil {
		return err
	}
	if !c.Types.IsIntScalar(expr.Type) || !c.IsConstant(expr, false) {
		return c.errorf(diag.SemaArraySize, expr.Span, "array size must be a constant integer expression")
	}
	val, ok := c.Fold(expr)
	v, _ := val.Scalar()
	if !ok || v.I <= 0 {
		return c.errorf(diag.SemaArraySize, expr.Span, "array size must be greater than zero")
	}
	n.Type = expr.Type
	n.Const = val
	return nil
}

// arrayType wraps base in the array described by size, if any.
func (c *Context) arrayType(base types.TypeID, size *ast.Node) (types.TypeID, error) {
	if size == nil {
		return base, nil
	}
	v, ok := size.Const.Scalar()
	if !ok {
		return types.NoTypeID, diag.Internalf("verify", "array size was not folded")
	}
	n, err := safecast.Conv[uint32](v.I)
	if err != nil {
		return types.NoTypeID, c.errorf(diag.SemaArraySize, size.Span, "invalid array size")
	}
	return c.Types.Array(base, n), nil
}

func (c *Context) verifyDeclaratorList(n *ast.Node) error {
	ft, err := require(n, ast.DeclListType)
	if err != nil {
		return err
	}
	n.Type = ft.Type
	if n.Len() == ast.DeclListFirst && ft.Attr.Qual != symbols.QualTemporary && !c.Types.IsStruct(ft.Type) {
		return c.errorf(diag.SynExpectIdentifier, n.Span, "qualified declaration has no variable name")
	}
	return nil
}

func (c *Context) verifyDeclarator(d *ast.Node) error {
	list := d.Parent()
	if list == nil || list.Kind != ast.KindDeclaratorList {
		return diag.Internalf("verify", "declarator outside a declarator list")
	}
	ft, err := require(list, ast.DeclListType)
	if err != nil {
		return err
	}
	if err := c.checkName(d.Attr.Name, d.Span); err != nil {
		return err
	}
	qual := ft.Attr.Qual
	base := ft.Type
	name := c.name(d.Attr.Name)
	if c.Types.Kind(base) == types.KindVoid {
		return c.errorf(diag.SemaVoidVariable, d.Span, "'%s': variables cannot be void", name)
	}
	size := d.Child(ast.DeclArraySize)
	ty, err := c.arrayType(base, size)
	if err != nil {
		return err
	}
	init := d.Child(ast.DeclInitializer)

	if qual.Interface() {
		if !c.atGlobalScope() {
			return c.errorf(diag.SemaQualifierScope, d.Span, "'%s' is only allowed at global scope", qual)
		}
		if init != nil {
			return c.errorf(diag.SemaQualifierInitializer, init.Span, "'%s' variables cannot be initialized", qual)
		}
	}
	switch qual {
	case symbols.QualAttribute:
		if c.Stage != target.Vertex {
			return c.errorf(diag.SemaAttributeStage, d.Span, "'attribute' is only allowed in vertex shaders")
		}
		if !c.Types.IsFloatBased(ty) || c.Types.IsArray(ty) || c.Types.IsStruct(ty) {
			return c.errorf(diag.SemaAttributeType, d.Span, "attribute '%s' cannot have type '%s'", name, c.typeName(ty))
		}
	case symbols.QualVarying:
		elem := ty
		if c.Types.IsArray(ty) {
			elem = c.Types.Elem(ty)
		}
		if !c.Types.IsFloatBased(elem) || c.Types.IsStruct(elem) {
			return c.errorf(diag.SemaVaryingType, d.Span, "varying '%s' cannot have type '%s'", name, c.typeName(ty))
		}
	case symbols.QualConst:
		if init == nil {
			return c.errorf(diag.SemaConstMissingInit, d.Span, "const '%s' requires an initializer", name)
		}
	}
	if qual != symbols.QualUniform && c.Types.Contains(ty, c.Types.IsSampler) {
		return c.errorf(diag.SemaSamplerMisuse, d.Span, "samplers can only be uniforms or function parameters")
	}
	if ft.Attr.Invariant && !c.atGlobalScope() {
		return c.errorf(diag.SemaInvariantTarget, d.Span, "'invariant' is only allowed at global scope")
	}

	var folded *types.Constant
	if init != nil {
		expr, err := require(init, ast.InitExpr)
		if err != nil {
			return err
		}
		if c.Types.IsArray(ty) {
			return c.errorf(diag.SemaArrayMisuse, init.Span, "arrays cannot be initialized")
		}
		if expr.Type != ty {
			return c.errorf(diag.SemaTypeMismatch, init.Span, "cannot initialize '%s' of type '%s' with '%s'",
				name, c.typeName(ty), c.typeName(expr.Type))
		}
		if qual == symbols.QualConst {
			if !c.IsConstant(expr, false) {
				return c.errorf(diag.SemaConstNotConstant, init.Span, "initializer of const '%s' is not a constant expression", name)
			}
			folded, _ = c.Fold(expr)
		}
	}

	sym := symbols.Symbol{
		Name:  d.Attr.Name,
		Kind:  symbols.SymbolVariable,
		Scope: c.scope(),
		Span:  d.Span,
		Type:  ty,
		Qual:  qual,
		Prec:  c.precisionOf(ft.Child(ast.FullTypeSpec)),
		Const: folded,
	}
	if ft.Attr.Invariant {
		sym.Flags |= symbols.SymbolFlagInvariant
	}
	id, ok := c.Symbols.Declare(sym)
	if !ok {
		return c.redeclared(id, d.Attr.Name, d.Span)
	}
	if loop := list.Parent(); loop != nil && loop.Kind == ast.KindForStatement &&
		loop.Child(ast.ForInit) == list && list.Len() == ast.DeclListFirst+1 {
		c.Symbols.Get(id).Flags |= symbols.SymbolFlagLoopIndex
		c.loopOwner[id] = loop
	}
	d.Attr.Symbol = id
	d.Type = ty
	return nil
}

func (c *Context) verifyParameter(pd *ast.Node) error {
	ft, err := require(pd, ast.ParamType)
	if err != nil {
		return err
	}
	if c.Types.Kind(ft.Type) == types.KindVoid {
		return c.errorf(diag.SemaVoidVariable, pd.Span, "parameters cannot be void")
	}
	ty, err := c.arrayType(ft.Type, pd.Child(ast.ParamArraySize))
	if err != nil {
		return err
	}
	if pd.Attr.Qual.Writable() && c.Types.Contains(ty, c.Types.IsSampler) {
		return c.errorf(diag.SemaSamplerMisuse, pd.Span, "samplers cannot be 'out' or 'inout' parameters")
	}
	if pd.Attr.Name != source.NoStringID {
		if err := c.checkName(pd.Attr.Name, pd.Span); err != nil {
			return err
		}
	}
	pd.Type = ty
	return nil
}

func (c *Context) signatureOf(proto *ast.Node) *symbols.Signature {
	sig := &symbols.Signature{Result: proto.Child(ast.ProtoReturn).Type}
	for i := ast.ProtoFirstParam; i < proto.Len(); i++ {
		pd := proto.Child(i)
		sig.Params = append(sig.Params, symbols.Param{
			Name: pd.Attr.Name,
			Type: pd.Type,
			Qual: pd.Attr.Qual,
			Prec: c.precisionOf(pd.Child(ast.ParamType).Child(ast.FullTypeSpec)),
		})
	}
	return sig
}

func sameParamTypes(a, b *symbols.Signature) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Type != b.Params[i].Type {
			return false
		}
	}
	return true
}

func sameQualifiers(a, b *symbols.Signature) bool {
	for i := range a.Params {
		if a.Params[i].Qual != b.Params[i].Qual {
			return false
		}
	}
	return true
}

func (c *Context) verifyPrototype(p *ast.Node) error {
	ret, err := require(p, ast.ProtoReturn)
	if err != nil {
		return err
	}
	if ret.Attr.Qual != symbols.QualTemporary {
		return c.errorf(diag.SemaQualifierScope, ret.Span, "function return types cannot be qualified")
	}
	if err := c.checkName(p.Attr.Name, p.Span); err != nil {
		return err
	}
	sig := c.signatureOf(p)
	isDef := p.Parent() != nil && p.Parent().Kind == ast.KindFunctionDefinition
	name := c.name(p.Attr.Name)
	if name == "main" && (c.Types.Kind(sig.Result) != types.KindVoid || len(sig.Params) != 0) {
		return c.errorf(diag.SemaInvalidMain, p.Span, "main must be declared as 'void main()'")
	}
	p.Type = sig.Result

	for _, prev := range c.Symbols.Scope(c.GlobalScope).NameIndex[p.Attr.Name] {
		ps := c.Symbols.Get(prev)
		if ps.Kind != symbols.SymbolFunction || !sameParamTypes(ps.Signature, sig) {
			continue
		}
		if ps.Signature.Result != sig.Result || !sameQualifiers(ps.Signature, sig) {
			return c.errorNote(diag.SemaFunctionDeclMismatch, p.Span, ps.Span, "previous declaration is here",
				"'%s' does not match its previous declaration", name)
		}
		if isDef {
			if ps.Flags&symbols.SymbolFlagDefined != 0 {
				return c.errorNote(diag.SemaFunctionRedefined, p.Span, ps.Span, "previous definition is here",
					"function '%s' is already defined", name)
			}
			ps.Flags |= symbols.SymbolFlagDefined
			ps.Signature = sig
			ps.Span = p.Span
		}
		p.Attr.Symbol = prev
		return nil
	}

	sym := symbols.Symbol{
		Name:      p.Attr.Name,
		Kind:      symbols.SymbolFunction,
		Scope:     c.GlobalScope,
		Span:      p.Span,
		Type:      sig.Result,
		Signature: sig,
		Prec:      c.precisionOf(ret.Child(ast.FullTypeSpec)),
	}
	if isDef {
		sym.Flags |= symbols.SymbolFlagDefined
	}
	id, ok := c.Symbols.Declare(sym)
	if !ok {
		return c.redeclared(id, p.Attr.Name, p.Span)
	}
	p.Attr.Symbol = id
	return nil
}

// enterFunctionBody declares the parameters in the body's scope.
func (c *Context) enterFunctionBody(def, body *ast.Node) error {
	proto, err := require(def, ast.FuncDefPrototype)
	if err != nil {
		return err
	}
	if proto.State != ast.Verified || !proto.Attr.Symbol.IsValid() {
		return diag.Internalf("verify", "function body verified before its prototype")
	}
	c.fn = &funcState{sym: proto.Attr.Symbol, result: proto.Type}
	for i := ast.ProtoFirstParam; i < proto.Len(); i++ {
		pd := proto.Child(i)
		if pd.Attr.Name == source.NoStringID {
			continue
		}
		id, ok := c.Symbols.Declare(symbols.Symbol{
			Name:  pd.Attr.Name,
			Kind:  symbols.SymbolParam,
			Scope: body.Scope,
			Span:  pd.Span,
			Type:  pd.Type,
			Qual:  pd.Attr.Qual,
			Prec:  c.precisionOf(pd.Child(ast.ParamType).Child(ast.FullTypeSpec)),
		})
		if !ok {
			return c.redeclared(id, pd.Attr.Name, pd.Span)
		}
		pd.Attr.Symbol = id
	}
	return nil
}

func (c *Context) verifyFunctionDefinition(def *ast.Node) error {
	proto, err := require(def, ast.FuncDefPrototype)
	if err != nil {
		return err
	}
	def.Attr.Symbol = proto.Attr.Symbol
	def.Type = proto.Type
	c.fn = nil
	return nil
}

func (c *Context) verifyStructSpecifier(st *ast.Node) error {
	list, err := require(st, ast.StructSpecList)
	if err != nil {
		return err
	}
	var fields []types.StructField
	for _, decl := range list.Children() {
		spec := decl.Child(ast.StructDeclType)
		if spec.Attr.Op == token.KwStruct {
			return c.errorf(diag.SemaStructInvalid, spec.Span, "embedded struct definitions are not supported")
		}
		for i := ast.StructDeclFirst; i < decl.Len(); i++ {
			sd := decl.Child(i)
			fields = append(fields, types.StructField{Name: c.name(sd.Attr.Name), Type: sd.Type, Span: sd.Span})
		}
	}
	name := ""
	if st.Attr.Name != source.NoStringID {
		if err := c.checkName(st.Attr.Name, st.Span); err != nil {
			return err
		}
		name = c.name(st.Attr.Name)
	}
	ty := c.Types.RegisterStruct(name, st.Span, fields)
	if name != "" {
		id, ok := c.Symbols.Declare(symbols.Symbol{
			Name:  st.Attr.Name,
			Kind:  symbols.SymbolStruct,
			Scope: c.scope(),
			Span:  st.Span,
			Type:  ty,
		})
		if !ok {
			return c.redeclared(id, st.Attr.Name, st.Span)
		}
		st.Attr.Symbol = id
	}
	st.Type = ty
	return nil
}

func (c *Context) verifyStructDeclarator(sd *ast.Node) error {
	decl := sd.Parent()
	if decl == nil || decl.Kind != ast.KindStructDeclaration {
		return diag.Internalf("verify", "struct declarator outside a struct declaration")
	}
	spec, err := require(decl, ast.StructDeclType)
	if err != nil {
		return err
	}
	if c.Types.Kind(spec.Type) == types.KindVoid {
		return c.errorf(diag.SemaVoidVariable, sd.Span, "struct members cannot be void")
	}
	if err := c.checkName(sd.Attr.Name, sd.Span); err != nil {
		return err
	}
	ty, err := c.arrayType(spec.Type, sd.Child(ast.StructDeclrArray))
	if err != nil {
		return err
	}
	id, ok := c.Symbols.Declare(symbols.Symbol{
		Name:  sd.Attr.Name,
		Kind:  symbols.SymbolVariable,
		Scope: c.scope(),
		Span:  sd.Span,
		Type:  ty,
	})
	if !ok {
		return c.redeclared(id, sd.Attr.Name, sd.Span)
	}
	sd.Type = ty
	return nil
}

func (c *Context) verifyPrecision(n *ast.Node) error {
	spec, err := require(n, ast.PrecisionType)
	if err != nil {
		return err
	}
	switch c.Types.Kind(spec.Type) {
	case types.KindFloat:
		c.frame().floatPrec = n.Attr.Precision
	case types.KindInt:
		c.frame().intPrec = n.Attr.Precision
	case types.KindSampler2D, types.KindSamplerCube:
	default:
		return c.errorf(diag.SemaPrecisionType, spec.Span, "default precision can only be set for int, float and sampler types")
	}
	return nil
}

func (c *Context) verifyInvariant(n *ast.Node) error {
	if !c.atGlobalScope() {
		return c.errorf(diag.SemaInvariantTarget, n.Span, "'invariant' is only allowed at global scope")
	}
	return n.ForEachChild(func(_ int, id *ast.Node) error {
		symID := c.Symbols.Lookup(c.scope(), id.Attr.Name)
		sym := c.Symbols.Get(symID)
		if sym == nil {
			return c.errorf(diag.SemaUndeclaredIdentifier, id.Span, "'%s' is not declared", c.name(id.Attr.Name))
		}
		ok := sym.Qual == symbols.QualVarying
		if sym.Builtin() {
			switch c.name(sym.Name) {
			case "gl_Position", "gl_PointSize", "gl_FragCoord", "gl_PointCoord":
				ok = true
			}
		}
		if !ok {
			return c.errorf(diag.SemaInvariantTarget, id.Span, "'%s' is not a varying", c.name(id.Attr.Name))
		}
		sym.Flags |= symbols.SymbolFlagInvariant
		id.Attr.Symbol = symID
		id.Type = sym.Type
		id.State = ast.Verified
		return nil
	})
}

func (c *Context) verifyUnit(n *ast.Node) error {
	mainID, _ := c.Strings.Find("main")
	var hasMain bool
	for _, id := range c.Symbols.Scope(c.GlobalScope).NameIndex[mainID] {
		if s := c.Symbols.Get(id); s.Kind == symbols.SymbolFunction && s.Flags&symbols.SymbolFlagDefined != 0 {
			hasMain = true
		}
	}
	if !hasMain {
		return c.errorf(diag.SemaMissingMain, n.Span.ZeroideToEnd(), "missing function 'void main()'")
	}
	if err := c.checkCallGraph(); err != nil {
		return err
	}
	return c.checkVaryingBudget(n)
}

// checkCallGraph rejects calls to functions without a body and recursion.
func (c *Context) checkCallGraph() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[symbols.SymbolID]int, len(c.calls))
	var visit func(fn symbols.SymbolID) error
	visit = func(fn symbols.SymbolID) error {
		state[fn] = active
		for _, callee := range c.calls[fn] {
			switch state[callee] {
			case active:
				site := c.callSite[callee]
				return c.errorf(diag.SemaRecursion, site.Span, "recursive call to '%s'", c.Symbols.Name(callee))
			case unvisited:
				if err := visit(callee); err != nil {
					return err
				}
			}
		}
		state[fn] = done
		return nil
	}
	var firstErr error
	c.Symbols.Each(func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Kind != symbols.SymbolFunction || s.Builtin() {
			return true
		}
		if site, called := c.callSite[id]; called && s.Flags&symbols.SymbolFlagDefined == 0 {
			firstErr = c.errorf(diag.SemaFunctionNotDefined, site.Span, "function '%s' is called but never defined", c.name(s.Name))
			return false
		}
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				firstErr = err
				return false
			}
		}
		return true
	})
	return firstErr
}
