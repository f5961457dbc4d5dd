// Package link reconciles the varying interface of a vertex unit with the
// one of a fragment unit and emits the interface structs both entry points
// share.
package link

import (
	"fmt"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/hlsl"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

// ErrorKind classifies link failures.
type ErrorKind uint8

const (
	TypeMismatch ErrorKind = iota + 1
	NotVertexDeclared
	BudgetExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case NotVertexDeclared:
		return "NotVertexDeclared"
	case BudgetExceeded:
		return "BudgetExceeded"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Code maps the kind onto the diagnostic catalog.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case TypeMismatch:
		return diag.LinkTypeMismatch
	case NotVertexDeclared:
		return diag.LinkNotVertexDeclared
	case BudgetExceeded:
		return diag.LinkBudgetExceeded
	}
	return diag.LinkInfo
}

// Error is a link failure. Name is the offending varying; it is empty for
// BudgetExceeded.
type Error struct {
	Kind ErrorKind
	Name string
	// Rows and Budget are set for BudgetExceeded.
	Rows   int
	Budget int
}

func (e *Error) Error() string {
	switch e.Kind {
	case TypeMismatch:
		return fmt.Sprintf("varying '%s' has different types in the vertex and fragment shaders", e.Name)
	case NotVertexDeclared:
		return fmt.Sprintf("fragment varying '%s' is not declared in the vertex shader", e.Name)
	case BudgetExceeded:
		return fmt.Sprintf("varying budget exceeded: %d rows, at most %d allowed", e.Rows, e.Budget)
	}
	return e.Kind.String()
}

// Result holds the two interface prologues. Each goes between the unit's
// body and its entry point (see hlsl.Output.Assemble).
type Result struct {
	VertexPrologue   string
	FragmentPrologue string
	// Linked is the retained vertex output set in declaration order.
	Linked []iface.Entry
	// Rows is the varying row cost of Linked.
	Rows int
}

// Link checks fs against vs and emits the prologues. budget is the
// varying row limit; zero means the vertex unit's level default.
func Link(vs, fs *iface.Interface, budget int) (*Result, error) {
	if vs == nil || fs == nil {
		return nil, diag.Internalf("link", "missing interface")
	}
	if vs.Stage != target.Vertex || fs.Stage != target.Fragment {
		return nil, diag.Internalf("link", "expected vertex and fragment units, got %s and %s", vs.Stage, fs.Stage)
	}
	if budget <= 0 {
		budget = vs.Level.MaxVaryingVectors()
	}

	read := make(map[string]struct{})
	for _, f := range fs.Varyings {
		if !f.Used {
			continue
		}
		v, ok := vs.Varying(f.Name)
		if !ok {
			return nil, &Error{Kind: NotVertexDeclared, Name: f.Name}
		}
		if v.Type != f.Type {
			return nil, &Error{Kind: TypeMismatch, Name: f.Name}
		}
		read[f.Name] = struct{}{}
	}

	// Reverse walk; an entry the fragment unit never reads has no consumer.
	var linked []iface.Entry
	for i := len(vs.Varyings) - 1; i >= 0; i-- {
		v := vs.Varyings[i]
		if _, ok := read[v.Name]; !ok {
			continue
		}
		linked = append(linked, v)
	}
	for i, j := 0, len(linked)-1; i < j; i, j = i+1, j-1 {
		linked[i], linked[j] = linked[j], linked[i]
	}

	rows := 0
	for _, v := range linked {
		rows += v.Type.Rows()
	}
	if rows > budget {
		return nil, &Error{Kind: BudgetExceeded, Rows: rows, Budget: budget}
	}

	l := &linker{vs: vs, fs: fs, linked: linked}
	l.layout()
	return &Result{
		VertexPrologue:   l.vertex(),
		FragmentPrologue: l.fragment(),
		Linked:           linked,
		Rows:             rows,
	}, nil
}

// member is one field of the shared varying struct.
type member struct {
	decl     string
	semantic string
}

type linker struct {
	vs, fs *iface.Interface
	linked []iface.Entry

	// emulated built-ins known only now that both sides are visible
	fragCoord  bool
	pointCoord bool
	pointSize  bool
	frontFace  bool

	shared []member
}

// layout assigns TEXCOORD semantics in a single order used by both
// structs, so the two signatures match.
func (l *linker) layout() {
	l.pointSize = l.vs.Uses("gl_PointSize")
	l.pointCoord = l.pointSize && l.fs.Uses("gl_PointCoord")
	l.fragCoord = l.fs.Uses("gl_FragCoord") && !l.fs.Level.NativeLoops()
	l.frontFace = l.fs.Uses("gl_FrontFacing")

	l.shared = append(l.shared, member{"float4 gl_Position", "SV_Position"})
	semantic := 0
	for _, v := range l.linked {
		l.shared = append(l.shared, member{v.Member(), fmt.Sprintf("TEXCOORD%d", semantic)})
		semantic += v.Type.Rows()
	}
	if l.fragCoord {
		l.shared = append(l.shared, member{"float4 gl_FragCoord", fmt.Sprintf("TEXCOORD%d", semantic)})
		semantic++
	}
	if l.pointCoord {
		l.shared = append(l.shared, member{"float2 gl_PointCoord", fmt.Sprintf("TEXCOORD%d", semantic)})
	}
}

type writer struct {
	b      strings.Builder
	indent int
}

func (w *writer) line(format string, args ...any) {
	for range w.indent {
		w.b.WriteString("    ")
	}
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) structDef(name string, members []member) {
	w.line("struct %s", name)
	w.line("{")
	w.indent++
	for _, m := range members {
		w.line("%s : %s;", m.decl, m.semantic)
	}
	w.indent--
	w.line("};")
	w.b.WriteByte('\n')
}

func (l *linker) vertex() string {
	var w writer
	members := l.shared
	if l.pointSize {
		members = append(members[:len(members):len(members)], member{"float gl_PointSize", "PSIZE"})
	}
	w.structDef(hlsl.VertexOutput, members)

	for _, v := range l.linked {
		if !v.Used && v.TextIfUnused != "" {
			w.line("%s", v.TextIfUnused)
		}
	}

	w.line("void %s(out %s output)", hlsl.WriteEmulation, hlsl.VertexOutput)
	w.line("{")
	w.indent++
	// Direct3D clip space depth is [0, w], GL is [-w, w].
	w.line("output.gl_Position = float4(gl_Position.x, gl_Position.y, (gl_Position.z + gl_Position.w) * 0.5, gl_Position.w);")
	for _, v := range l.linked {
		w.line("output.%s = %s;", v.HLSLName, v.HLSLName)
	}
	if l.fragCoord {
		w.line("output.gl_FragCoord = gl_Position;")
	}
	if l.pointCoord {
		w.line("output.gl_PointCoord = float2(0.5, 0.5);")
	}
	if l.pointSize {
		w.line("output.gl_PointSize = clamp(gl_PointSize, 1.0, 1024.0);")
	}
	w.indent--
	w.line("}")
	return w.b.String()
}

func (l *linker) fragment() string {
	var w writer
	members := l.shared
	if l.frontFace {
		members = append(members[:len(members):len(members)], member{"bool gl_FrontFacing", "SV_IsFrontFace"})
	}
	w.structDef(hlsl.FragmentInput, members)

	if l.fragCoord {
		w.line("uniform float4 dx_ViewCoords;")
		w.b.WriteByte('\n')
	}

	w.line("void %s(%s input)", hlsl.ReadEmulation, hlsl.FragmentInput)
	w.line("{")
	w.indent++
	for _, v := range l.linked {
		f, ok := l.fs.Varying(v.Name)
		if !ok || !f.Used {
			continue
		}
		w.line("%s = input.%s;", f.HLSLName, v.HLSLName)
	}
	if l.fs.Uses("gl_FragCoord") {
		if l.fragCoord {
			w.line("float rhw = 1.0 / input.gl_FragCoord.w;")
			w.line("gl_FragCoord.x = input.gl_FragCoord.x * rhw * dx_ViewCoords.x + dx_ViewCoords.z;")
			w.line("gl_FragCoord.y = input.gl_FragCoord.y * rhw * dx_ViewCoords.y + dx_ViewCoords.w;")
			w.line("gl_FragCoord.z = input.gl_FragCoord.z * rhw * 0.5 + 0.5;")
			w.line("gl_FragCoord.w = rhw;")
		} else {
			w.line("gl_FragCoord = float4(input.gl_Position.xyz, 1.0 / input.gl_Position.w);")
		}
	}
	if l.fs.Uses("gl_PointCoord") {
		if l.pointCoord {
			w.line("gl_PointCoord = input.gl_PointCoord;")
		} else {
			w.line("gl_PointCoord = float2(0.5, 0.5);")
		}
	}
	if l.frontFace {
		w.line("gl_FrontFacing = input.gl_FrontFacing;")
	}
	w.indent--
	w.line("}")
	return w.b.String()
}
