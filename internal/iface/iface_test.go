package iface_test

import (
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/hlsl"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/parser"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/sema"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

func build(t *testing.T, st target.Stage, src string) *iface.Interface {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.glsl", []byte(src))
	bag := diag.NewBag(16)
	rep := &diag.BagReporter{Bag: bag}
	pre, err := pp.Preprocess(fs.Get(id), pp.Options{Stage: st, Level: target.Level11_0, Reporter: rep})
	if err != nil {
		t.Fatalf("preprocess: %v %v", err, bag.Items())
	}
	strs := source.NewInterner()
	root, err := parser.Parse(pre.Tokens, parser.Options{Reporter: rep, Strings: strs})
	if err != nil {
		t.Fatalf("parse: %v %v", err, bag.Items())
	}
	c := sema.NewContext(sema.Options{
		Stage:      st,
		Level:      target.Level11_0,
		Reporter:   rep,
		Extensions: pre.Extensions,
		Strings:    strs,
	})
	if err := sema.Verify(c, root); err != nil {
		t.Fatalf("verify: %v %v", err, bag.Items())
	}
	if err := hlsl.New(c, hlsl.Options{}).AssignNames(root); err != nil {
		t.Fatalf("names: %v", err)
	}
	in, err := iface.Build(c)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return in
}

func TestBuildVertexInterface(t *testing.T) {
	in := build(t, target.Vertex, `attribute vec4 a_pos;
attribute mat3 a_basis;
attribute vec2 a_uv;
varying vec2 v_uv;
varying float v_spare;
uniform mat4 u_mvp;
void main() {
    v_uv = a_uv;
    gl_Position = u_mvp * vec4(a_basis * a_pos.xyz, 1.0);
}
`)
	if len(in.Attributes) != 3 {
		t.Fatalf("attributes = %+v", in.Attributes)
	}
	if got := []int{in.Attributes[0].Semantic, in.Attributes[1].Semantic, in.Attributes[2].Semantic}; got[0] != 0 || got[1] != 1 || got[2] != 4 {
		t.Fatalf("semantics = %v, want [0 1 4]", got)
	}
	uv, ok := in.Varying("v_uv")
	if !ok || !uv.Used || uv.Member() != "float2 _v_uv" {
		t.Fatalf("v_uv = %+v", uv)
	}
	spare, ok := in.Varying("v_spare")
	if !ok || spare.Used {
		t.Fatalf("v_spare = %+v", spare)
	}
	if spare.TextIfUnused != "static const float _v_spare = (float)0;" {
		t.Fatalf("unused text = %q", spare.TextIfUnused)
	}
	if used := in.UsedVaryings(); len(used) != 1 || used[0].Name != "v_uv" {
		t.Fatalf("used varyings = %+v", used)
	}
	if !in.Uses("gl_Position") {
		t.Fatalf("builtins = %v", in.Builtins)
	}
}

func TestBuildFragmentSamplers(t *testing.T) {
	in := build(t, target.Fragment, `precision mediump float;
uniform sampler2D u_tex;
uniform sampler2D u_layers[2];
uniform vec4 u_tint;
varying vec2 v_uv;
void main() {
    gl_FragColor = texture2D(u_tex, v_uv) * u_tint + texture2D(u_layers[1], v_uv);
}
`)
	regs := map[string]string{}
	for _, u := range in.Uniforms {
		regs[u.Name] = u.Register
	}
	if regs["u_tex"] != "s0" || regs["u_layers"] != "s1" || regs["u_tint"] != "" {
		t.Fatalf("registers = %v", regs)
	}
	uv, ok := in.Varying("v_uv")
	if !ok || !uv.Used || uv.TextIfUnused != "" {
		t.Fatalf("fragment varying = %+v", uv)
	}
	found := false
	for _, u := range in.Usage {
		if u.Name == "u_tint" && u.Reads > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("usage lacks u_tint: %+v", in.Usage)
	}
}
