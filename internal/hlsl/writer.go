package hlsl

import (
	"fmt"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/sema"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// Options tune the emitted text.
type Options struct {
	Flags target.Options
	// Line maps a span to the logical source line for #line directives.
	// Directives are emitted only when Line is set and the flag is on.
	Line func(source.Span) (int, bool)
}

// Output is the HLSL of one unit. The stage linker supplies the text that
// goes between Body and Entry: the interface struct the entry point takes
// or returns and the emulation helpers it calls.
type Output struct {
	Profile string `msgpack:"profile"`
	Body    string `msgpack:"body"`
	Entry   string `msgpack:"entry"`
}

// Assemble joins the unit with its linker prologue.
func (o *Output) Assemble(prologue string) string {
	return o.Body + "\n" + prologue + "\n" + o.Entry
}

// Writer emits HLSL for one verified unit. It is single use.
type Writer struct {
	c    *sema.Context
	opts Options

	names   *namer
	structs map[types.TypeID]string
	// emitted marks struct types whose definition is already written.
	emitted map[types.TypeID]struct{}

	structDefs emitter
	helpers    []string
	helperSeen map[string]struct{}
	// deferred global declarators initialised at the top of gl_main.
	deferred []*ast.Node
	lastLine int
}

// New returns a writer for c. AssignNames must run before Write.
func New(c *sema.Context, opts Options) *Writer {
	if !opts.Flags.Has(target.OptLineDirectives) {
		opts.Line = nil
	}
	return &Writer{
		c:          c,
		opts:       opts,
		names:      newNamer(),
		structs:    make(map[types.TypeID]string),
		emitted:    make(map[types.TypeID]struct{}),
		helperSeen: make(map[string]struct{}),
	}
}

// Write emits the unit.
func (w *Writer) Write(root *ast.Node, in *iface.Interface) (*Output, error) {
	if root == nil || root.Kind != ast.KindTranslationUnit {
		return nil, diag.Internalf("hlsl", "write: expected a translation unit")
	}
	if in == nil {
		return nil, diag.Internalf("hlsl", "write: missing interface")
	}
	var globals, funcs emitter
	if err := w.builtinStatics(&globals, in); err != nil {
		return nil, err
	}
	for _, a := range in.Attributes {
		globals.line("static %s;", iface.Decl(a.Type, a.HLSLName))
	}
	for _, v := range in.Varyings {
		if v.Used {
			globals.line("%s", v.Text)
		}
	}
	registers := make(map[symbols.SymbolID]string, len(in.Uniforms))
	for _, u := range in.Uniforms {
		registers[u.Symbol] = u.Register
	}
	for _, top := range root.Children() {
		if top == nil {
			continue
		}
		var err error
		switch top.Kind {
		case ast.KindDeclaratorList:
			err = w.globalDeclaration(&globals, top, registers)
		case ast.KindFunctionPrototype:
			err = w.prototype(&funcs, top)
		case ast.KindFunctionDefinition:
			err = w.function(&funcs, top)
		case ast.KindPrecisionDeclaration, ast.KindInvariantDeclaration:
		default:
			err = diag.Internalf("hlsl", "unexpected %s at global scope", top.Kind)
		}
		if err != nil {
			return nil, err
		}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "// %s shader, profile %s\n", w.c.Stage, w.c.Level.Profile(w.c.Stage))
	if s := w.structDefs.String(); s != "" {
		body.WriteString("\n" + s)
	}
	for _, h := range w.helpers {
		body.WriteString("\n" + h)
	}
	if s := globals.String(); s != "" {
		body.WriteString("\n" + s)
	}
	if s := funcs.String(); s != "" {
		body.WriteString("\n" + s)
	}
	entry, err := w.entry(in)
	if err != nil {
		return nil, err
	}
	return &Output{
		Profile: w.c.Level.Profile(w.c.Stage),
		Body:    body.String(),
		Entry:   entry,
	}, nil
}

// builtinStatics declares the gl_* variables the entry point copies in or
// out.
func (w *Writer) builtinStatics(e *emitter, in *iface.Interface) error {
	if w.c.Stage == target.Vertex {
		e.line("static float4 gl_Position = float4(0.0, 0.0, 0.0, 0.0);")
		if in.Uses("gl_PointSize") {
			e.line("static float gl_PointSize = 1.0;")
		}
		return nil
	}
	if in.Uses("gl_FragCoord") {
		e.line("static float4 gl_FragCoord = float4(0.0, 0.0, 0.0, 0.0);")
	}
	if in.Uses("gl_PointCoord") {
		e.line("static float2 gl_PointCoord = float2(0.5, 0.5);")
	}
	if in.Uses("gl_FrontFacing") {
		e.line("static bool gl_FrontFacing = false;")
	}
	if in.Uses("gl_FragData") {
		e.line("static float4 gl_FragData[%d];", max(in.DrawBuffers, 1))
	} else {
		e.line("static float4 gl_FragColor = float4(0.0, 0.0, 0.0, 0.0);")
	}
	if in.Uses("gl_FragDepthEXT") {
		e.line("static float gl_FragDepthEXT = 0.0;")
	}
	return nil
}

func (w *Writer) globalDeclaration(e *emitter, n *ast.Node, registers map[symbols.SymbolID]string) error {
	ft := n.Child(ast.DeclListType)
	if ft == nil {
		return diag.Internalf("hlsl", "declaration without a type")
	}
	switch ft.Attr.Qual {
	case symbols.QualAttribute, symbols.QualVarying:
		// declared from the interface
		return w.structsIn(ft)
	case symbols.QualUniform:
		if err := w.structsIn(ft); err != nil {
			return err
		}
		for i := ast.DeclListFirst; i < n.Len(); i++ {
			d := n.Child(i)
			if d == nil {
				continue
			}
			s := w.c.Symbols.Get(d.Attr.Symbol)
			if s == nil {
				return diag.Internalf("hlsl", "uniform without a symbol")
			}
			text := "uniform " + w.majority(s.Type) + w.decl(s.Type, s.HLSLName)
			if reg := registers[d.Attr.Symbol]; reg != "" {
				text += " : register(" + reg + ")"
			}
			e.line("%s;", text)
		}
		return nil
	}
	decls, err := w.declarators(n, true)
	if err != nil {
		return err
	}
	for _, d := range decls {
		e.line("%s;", d)
	}
	return nil
}

// structsIn writes the definitions of struct types declared in a type.
func (w *Writer) structsIn(n *ast.Node) error {
	var err error
	ast.Inspect(n, func(m *ast.Node) bool {
		if err != nil {
			return false
		}
		if m.Kind == ast.KindStructSpecifier {
			err = w.structDefinition(m.Type)
			return false
		}
		return true
	})
	return err
}

func (w *Writer) structDefinition(id types.TypeID) error {
	if _, ok := w.emitted[id]; ok {
		return nil
	}
	info, ok := w.c.Types.StructInfo(id)
	if !ok {
		return diag.Internalf("hlsl", "struct definition of a non-struct type")
	}
	for _, f := range info.Fields {
		ft := f.Type
		if w.c.Types.IsArray(ft) {
			ft = w.c.Types.Elem(ft)
		}
		if w.c.Types.IsStruct(ft) {
			if err := w.structDefinition(ft); err != nil {
				return err
			}
		}
	}
	w.emitted[id] = struct{}{}
	e := &w.structDefs
	e.line("struct %s", w.typeName(id))
	e.line("{")
	e.indent++
	for _, f := range info.Fields {
		e.line("%s%s;", w.majority(f.Type), w.decl(f.Type, w.fieldName(f.Name)))
	}
	e.indent--
	e.line("};")
	e.raw("\n")
	return nil
}

// signature spells "T name(params)" for a prototype node.
func (w *Writer) signature(proto *ast.Node) (string, error) {
	s := w.c.Symbols.Get(proto.Attr.Symbol)
	if s == nil || s.Signature == nil {
		return "", diag.Internalf("hlsl", "prototype without a function symbol")
	}
	if err := w.structsIn(proto.Child(ast.ProtoReturn)); err != nil {
		return "", err
	}
	params := make([]string, 0, len(s.Signature.Params))
	for i := ast.ProtoFirstParam; i < proto.Len(); i++ {
		pd := proto.Child(i)
		if pd == nil {
			continue
		}
		if err := w.structsIn(pd); err != nil {
			return "", err
		}
		name := fmt.Sprintf("%s%d", unnamedParameter, i-ast.ProtoFirstParam)
		if ps := w.c.Symbols.Get(pd.Attr.Symbol); ps != nil && ps.HLSLName != "" {
			name = ps.HLSLName
		}
		qual := ""
		switch pd.Attr.Qual {
		case symbols.QualOut:
			qual = "out "
		case symbols.QualInout:
			qual = "inout "
		}
		params = append(params, qual+w.decl(pd.Type, name))
	}
	return fmt.Sprintf("%s %s(%s)", w.typeName(s.Signature.Result), s.HLSLName, strings.Join(params, ", ")), nil
}

func (w *Writer) prototype(e *emitter, n *ast.Node) error {
	sig, err := w.signature(n)
	if err != nil {
		return err
	}
	e.line("%s;", sig)
	e.raw("\n")
	return nil
}

func (w *Writer) function(e *emitter, n *ast.Node) error {
	proto, body := n.Child(ast.FuncDefPrototype), n.Child(ast.FuncDefBody)
	if proto == nil || body == nil {
		return diag.Internalf("hlsl", "incomplete function definition")
	}
	w.lineDirective(e, n)
	sig, err := w.signature(proto)
	if err != nil {
		return err
	}
	e.line("%s", sig)
	if s := w.c.Symbols.Get(proto.Attr.Symbol); s != nil && s.HLSLName == MainFunction && len(w.deferred) > 0 {
		e.line("{")
		e.indent++
		for _, d := range w.deferred {
			x := d.Child(ast.DeclInitializer).Child(ast.InitExpr)
			v, err := w.expr(x)
			if err != nil {
				return err
			}
			e.line("%s = %s;", w.c.Symbols.Get(d.Attr.Symbol).HLSLName, v)
		}
		if err := w.block(e, body); err != nil {
			return err
		}
		e.indent--
		e.line("}")
	} else if err := w.block(e, body); err != nil {
		return err
	}
	e.raw("\n")
	return nil
}

// constant spells a folded value; matrix components are already in GLSL
// column order, which is HLSL row order.
func (w *Writer) constant(id types.TypeID, vals []types.Value) string {
	if len(vals) == 1 && w.c.Types.IsScalar(id) {
		return vals[0].Literal()
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.Literal()
	}
	return w.typeName(id) + "(" + strings.Join(parts, ", ") + ")"
}
