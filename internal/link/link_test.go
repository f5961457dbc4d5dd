package link

import (
	"errors"
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

var tys = types.NewInterner()

func entry(name string, ty types.TypeID, used bool) iface.Entry {
	d := tys.Describe(ty)
	hl := "_" + name
	return iface.Entry{
		Name:         name,
		HLSLName:     hl,
		Type:         d,
		Used:         used,
		Text:         "static " + iface.Decl(d, hl) + ";",
		TextIfUnused: "static const " + iface.Decl(d, hl) + " = (" + d.HLSL() + ")0;",
	}
}

func units(lvl target.Level, vs, fs []iface.Entry) (*iface.Interface, *iface.Interface) {
	return &iface.Interface{Stage: target.Vertex, Level: lvl, Varyings: vs},
		&iface.Interface{Stage: target.Fragment, Level: lvl, Varyings: fs}
}

func TestLinkDropsVaryingsTheFragmentNeverReads(t *testing.T) {
	b := tys.Builtins()
	vs, fs := units(target.Level11_0,
		[]iface.Entry{entry("v1", b.Float, true), entry("v2", b.Vec[2], true)},
		[]iface.Entry{entry("v1", b.Float, true), entry("v2", b.Vec[2], false)},
	)
	res, err := Link(vs, fs, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(res.Linked) != 1 || res.Linked[0].Name != "v1" {
		t.Fatalf("linked = %+v", res.Linked)
	}
	if res.Rows != 1 {
		t.Fatalf("rows = %d", res.Rows)
	}
	for _, p := range []string{res.VertexPrologue, res.FragmentPrologue} {
		if !strings.Contains(p, "float _v1 : TEXCOORD0;") {
			t.Fatalf("prologue lacks v1 member:\n%s", p)
		}
		if strings.Contains(p, "_v2") {
			t.Fatalf("prologue keeps v2:\n%s", p)
		}
		if !strings.Contains(p, "float4 gl_Position : SV_Position;") {
			t.Fatalf("prologue lacks position:\n%s", p)
		}
	}
	if !strings.Contains(res.VertexPrologue, "output._v1 = _v1;") {
		t.Fatalf("vertex prologue:\n%s", res.VertexPrologue)
	}
	if !strings.Contains(res.FragmentPrologue, "_v1 = input._v1;") {
		t.Fatalf("fragment prologue:\n%s", res.FragmentPrologue)
	}
}

func TestLinkTypeMismatch(t *testing.T) {
	b := tys.Builtins()
	vs, fs := units(target.Level11_0,
		[]iface.Entry{entry("v1", b.Float, true)},
		[]iface.Entry{entry("v1", b.Vec[2], true)},
	)
	_, err := Link(vs, fs, 0)
	var le *Error
	if !errors.As(err, &le) || le.Kind != TypeMismatch || le.Name != "v1" {
		t.Fatalf("err = %v", err)
	}
}

func TestLinkNotVertexDeclared(t *testing.T) {
	b := tys.Builtins()
	vs, fs := units(target.Level11_0,
		[]iface.Entry{entry("v1", b.Float, true)},
		[]iface.Entry{entry("v1", b.Float, true), entry("v3", b.Vec[4], true), entry("v4", b.Int, true)},
	)
	_, err := Link(vs, fs, 0)
	var le *Error
	if !errors.As(err, &le) || le.Kind != NotVertexDeclared || le.Name != "v3" {
		t.Fatalf("err = %v", err)
	}
}

func TestLinkIgnoresUnusedFragmentDeclarations(t *testing.T) {
	b := tys.Builtins()
	vs, fs := units(target.Level11_0,
		[]iface.Entry{entry("v1", b.Float, true)},
		[]iface.Entry{entry("v1", b.Float, true), entry("v9", b.Mat[3], false)},
	)
	if _, err := Link(vs, fs, 0); err != nil {
		t.Fatalf("link: %v", err)
	}
}

func TestLinkKeepsVaryingUnusedByVertex(t *testing.T) {
	b := tys.Builtins()
	vs, fs := units(target.Level11_0,
		[]iface.Entry{entry("a", b.Vec[3], false), entry("c", b.Float, true)},
		[]iface.Entry{entry("a", b.Vec[3], true), entry("c", b.Float, true)},
	)
	res, err := Link(vs, fs, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(res.Linked) != 2 || res.Linked[0].Name != "a" || res.Linked[1].Name != "c" {
		t.Fatalf("linked = %+v", res.Linked)
	}
	for _, want := range []string{
		"static const float3 _a = (float3)0;",
		"float3 _a : TEXCOORD0;",
		"float _c : TEXCOORD1;",
	} {
		if !strings.Contains(res.VertexPrologue, want) {
			t.Fatalf("vertex prologue lacks %q:\n%s", want, res.VertexPrologue)
		}
	}
}

func TestLinkBudget(t *testing.T) {
	b := tys.Builtins()
	arr := tys.Array(b.Vec[4], 3)
	set := []iface.Entry{entry("m", b.Mat[4], true), entry("a", arr, true), entry("f", b.Float, true)}
	vs, fs := units(target.Level9_3, set, set)
	res, err := Link(vs, fs, 0)
	if err != nil {
		t.Fatalf("8 rows must fit level 9_3: %v", err)
	}
	if res.Rows != 8 {
		t.Fatalf("rows = %d", res.Rows)
	}
	if !strings.Contains(res.VertexPrologue, "float _f : TEXCOORD7;") {
		t.Fatalf("semantics must advance by rows:\n%s", res.VertexPrologue)
	}

	set = append(set, entry("g", b.Vec[2], true))
	vs, fs = units(target.Level9_3, set, set)
	_, err = Link(vs, fs, 0)
	var le *Error
	if !errors.As(err, &le) || le.Kind != BudgetExceeded || le.Rows != 9 || le.Budget != 8 {
		t.Fatalf("err = %v", err)
	}
	if _, err := Link(vs, fs, 10); err != nil {
		t.Fatalf("explicit budget: %v", err)
	}
}

func TestLinkEmulatedBuiltins(t *testing.T) {
	vs := &iface.Interface{Stage: target.Vertex, Level: target.Level9_3, Builtins: []string{"gl_PointSize"}}
	fs := &iface.Interface{Stage: target.Fragment, Level: target.Level9_3,
		Builtins: []string{"gl_FragCoord", "gl_PointCoord", "gl_FrontFacing"}}
	res, err := Link(vs, fs, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	for _, want := range []string{
		"float4 gl_FragCoord : TEXCOORD0;",
		"float2 gl_PointCoord : TEXCOORD1;",
		"float gl_PointSize : PSIZE;",
		"output.gl_FragCoord = gl_Position;",
	} {
		if !strings.Contains(res.VertexPrologue, want) {
			t.Fatalf("vertex prologue lacks %q:\n%s", want, res.VertexPrologue)
		}
	}
	for _, want := range []string{
		"bool gl_FrontFacing : SV_IsFrontFace;",
		"uniform float4 dx_ViewCoords;",
		"gl_PointCoord = input.gl_PointCoord;",
		"gl_FrontFacing = input.gl_FrontFacing;",
	} {
		if !strings.Contains(res.FragmentPrologue, want) {
			t.Fatalf("fragment prologue lacks %q:\n%s", want, res.FragmentPrologue)
		}
	}
	if strings.Contains(res.FragmentPrologue, "PSIZE") {
		t.Fatalf("point size leaked into the fragment input:\n%s", res.FragmentPrologue)
	}

	vs.Builtins, vs.Level, fs.Level = nil, target.Level11_0, target.Level11_0
	res, err = Link(vs, fs, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if strings.Contains(res.VertexPrologue, "gl_FragCoord") || strings.Contains(res.VertexPrologue, "gl_PointCoord") {
		t.Fatalf("native level must not emulate:\n%s", res.VertexPrologue)
	}
	if !strings.Contains(res.FragmentPrologue, "gl_PointCoord = float2(0.5, 0.5);") {
		t.Fatalf("fragment prologue:\n%s", res.FragmentPrologue)
	}
}
