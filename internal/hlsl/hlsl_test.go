package hlsl

import (
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/parser"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/sema"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

func emit(t *testing.T, st target.Stage, lvl target.Level, flags target.Options, src string) (*Output, *iface.Interface) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.glsl", []byte(src))
	bag := diag.NewBag(16)
	rep := &diag.BagReporter{Bag: bag}
	res, err := pp.Preprocess(fs.Get(id), pp.Options{Stage: st, Level: lvl, Reporter: rep})
	if err != nil {
		t.Fatalf("preprocess: %v %v", err, bag.Items())
	}
	strs := source.NewInterner()
	root, err := parser.Parse(res.Tokens, parser.Options{Reporter: rep, Strings: strs})
	if err != nil {
		t.Fatalf("parse: %v %v", err, bag.Items())
	}
	c := sema.NewContext(sema.Options{
		Stage: st, Level: lvl, Flags: flags, Reporter: rep,
		Extensions: res.Extensions, Strings: strs,
	})
	if err := sema.Verify(c, root); err != nil {
		t.Fatalf("verify: %v %v", err, bag.Items())
	}
	if _, err := sema.HoistShortCircuits(c); err != nil {
		t.Fatalf("hoist: %v", err)
	}
	w := New(c, Options{Flags: flags})
	if err := w.AssignNames(root); err != nil {
		t.Fatalf("names: %v", err)
	}
	in, err := iface.Build(c)
	if err != nil {
		t.Fatalf("interface: %v", err)
	}
	out, err := w.Write(root, in)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	return out, in
}

func wantAll(t *testing.T, text string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(text, s) {
			t.Fatalf("output lacks %q:\n%s", s, text)
		}
	}
}

func wantNone(t *testing.T, text string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if strings.Contains(text, s) {
			t.Fatalf("output must not contain %q:\n%s", s, text)
		}
	}
}

const vertexSrc = `
attribute vec4 a_pos;
attribute vec2 a_uv;
uniform mat4 u_mvp;
varying vec2 v_uv;
varying float v_unused;
void main() {
    v_uv = a_uv;
    gl_Position = u_mvp * a_pos;
}
`

func TestVertexShader(t *testing.T) {
	out, in := emit(t, target.Vertex, target.Level11_0, 0, vertexSrc)
	if out.Profile != "vs_5_0" {
		t.Fatalf("profile = %q", out.Profile)
	}
	wantAll(t, out.Body,
		"uniform row_major float4x4 _u_mvp;",
		"static float4 _a_pos;",
		"static float2 _v_uv;",
		"static float4 gl_Position",
		"void gl_main()",
		"(_v_uv = _a_uv);",
		"(gl_Position = mul(_a_pos, _u_mvp));",
	)
	wantNone(t, out.Body, "_v_unused", "void main(")
	wantAll(t, out.Entry,
		"float4 _a_pos : TEXCOORD0;",
		"float2 _a_uv : TEXCOORD1;",
		"VS_OUTPUT main(VS_INPUT input)",
		"_a_pos = input._a_pos;",
		"gl_main();",
		"gl_write_emulation_value(output);",
	)
	if len(in.Varyings) != 2 || !in.Varyings[0].Used || in.Varyings[1].Used {
		t.Fatalf("varyings = %+v", in.Varyings)
	}
	if got := in.Varyings[1].TextIfUnused; got != "static const float _v_unused = (float)0;" {
		t.Fatalf("text if unused = %q", got)
	}
}

const fragHeader = "precision mediump float;\n"

func TestFragmentBuiltinMapping(t *testing.T) {
	out, in := emit(t, target.Fragment, target.Level11_0, 0, fragHeader+`
uniform sampler2D u_tex;
uniform samplerCube u_env;
varying vec2 v_uv;
void main() {
    vec4 c = texture2D(u_tex, v_uv);
    vec4 e = textureCube(u_env, vec3(v_uv, 1.0));
    float f = fract(mix(c.r, e.g, 0.5));
    vec2 m = mod(v_uv, 2.0);
    float s = inversesqrt(f) + atan(m.x, m.y);
    gl_FragColor = vec4(m.st, f, s);
}
`)
	wantAll(t, out.Body,
		"uniform sampler2D _u_tex : register(s0);",
		"uniform samplerCUBE _u_env : register(s1);",
		"tex2D(_u_tex, _v_uv)",
		"texCUBE(_u_env, float3(_v_uv, 1.0))",
		"frac(lerp(_c.x, _e.y, 0.5))",
		"float2 gl_mod(float2 x, float y)",
		"gl_mod(_v_uv, 2.0)",
		"rsqrt(_f)",
		"atan2(_m.x, _m.y)",
		"float4(_m.xy, _f, _s)",
		"static float4 gl_FragColor",
	)
	if len(in.Uniforms) != 2 || in.Uniforms[1].Register != "s1" {
		t.Fatalf("uniforms = %+v", in.Uniforms)
	}
	wantAll(t, out.Entry,
		"PS_OUTPUT main(PS_INPUT input)",
		"gl_read_emulation_value(input);",
		"output.gl_Color0 = gl_FragColor;",
		"float4 gl_Color0 : SV_Target0;",
	)
}

func TestLoopAttributes(t *testing.T) {
	src := fragHeader + `
uniform float u;
void main() {
    float acc = 0.0;
    for (int i = 0; i < 2; i++) { acc += u; }
    for (int j = 0; j < 10; j++) { acc += u; }
    gl_FragColor = vec4(acc);
}
`
	out, _ := emit(t, target.Fragment, target.Level11_0, 0, src)
	wantAll(t, out.Body,
		"[unroll] for (int _i = 0; (_i < 2); (_i++))",
		"[loop] for (int _j = 0; (_j < 10); (_j++))",
	)
	out, _ = emit(t, target.Fragment, target.Level9_3, 0, src)
	wantAll(t, out.Body, "[unroll] for (int _j = 0; (_j < 10); (_j++))")
	wantNone(t, out.Body, "[loop]")
}

func TestHoistedConditionalEmitsIf(t *testing.T) {
	out, _ := emit(t, target.Fragment, target.Level11_0, 0, fragHeader+`
uniform bool u_c;
float a() { return 1.0; }
float b() { return 2.0; }
void main() {
    float x = u_c ? a() : b();
    gl_FragColor = vec4(x);
}
`)
	wantAll(t, out.Body,
		"float s0;",
		"if (_u_c)",
		"(s0 = _a());",
		"(s0 = _b());",
		"(_x = s0);",
	)
	wantNone(t, out.Body, " ? ")
}

func TestConstructors(t *testing.T) {
	out, _ := emit(t, target.Vertex, target.Level11_0, 0, `
uniform mat4 u_m4;
uniform vec4 u_v4;
void main() {
    mat3 d = mat3(u_v4.x);
    mat3 r = mat3(u_m4);
    mat4 g = mat4(mat2(u_v4));
    vec3 v = vec3(u_v4);
    vec4 s = vec4(u_v4.x);
    float f = float(u_v4);
    gl_Position = vec4(d * v, f) + s + g[0] + vec4(r[0], 1.0);
}
`)
	wantAll(t, out.Body,
		"gl_mat3_diag((float)_u_v4.x)",
		"float3x3 gl_mat3_diag(float s)",
		"gl_mat3_from_mat4(_u_m4)",
		"return float3x3(float3(m[0].xyz), float3(m[1].xyz), float3(m[2].xyz));",
		"gl_mat4_from_mat2(float2x2(_u_v4))",
		"float3((_u_v4).xyz)",
		"((float4)_u_v4.x)",
		"((float)(_u_v4).x)",
		"mul(_v, _d)",
	)
}

func TestAggregateEquality(t *testing.T) {
	out, _ := emit(t, target.Fragment, target.Level11_0, 0, fragHeader+`
struct S { float a; vec2 b; };
uniform vec2 u;
uniform S us;
void main() {
    S t = S(1.0, u);
    bool v = u == vec2(1.0);
    bool w = t != us;
    if (v && w) discard;
}
`)
	wantAll(t, out.Body,
		"struct _S",
		"float _a;",
		"float2 _b;",
		"_S gl_ctor_S(float x0, float2 x1)",
		"_S _t = gl_ctor_S(1.0, _u);",
		"all(_u == ((float2)1.0))",
		"(!((_t._a == _us._a) && all(_t._b == _us._b)))",
		"discard;",
	)
}

func TestDeferredGlobalInitializer(t *testing.T) {
	out, _ := emit(t, target.Fragment, target.Level11_0, 0, fragHeader+`
uniform float u;
float g = u * 2.0;
const float k = 3.0;
void main() {
    gl_FragColor = vec4(g + k);
}
`)
	wantAll(t, out.Body,
		"static float _g;",
		"static const float _k = 3.0;",
		"_g = (_u * 2.0);",
	)
	if strings.Index(out.Body, "_g = (_u * 2.0);") < strings.Index(out.Body, "void gl_main()") {
		t.Fatalf("deferred initializer must run inside gl_main:\n%s", out.Body)
	}
}

func TestPreserveNamesEscapesReserved(t *testing.T) {
	src := fragHeader + `
void main() {
    float lerp = 1.0;
    float value = lerp;
    gl_FragColor = vec4(value);
}
`
	out, _ := emit(t, target.Fragment, target.Level11_0, target.OptPreserveNames, src)
	wantAll(t, out.Body, "float _lerp = 1.0;", "float value = _lerp;")
	out, _ = emit(t, target.Fragment, target.Level11_0, 0, src)
	wantAll(t, out.Body, "float _lerp = 1.0;", "float _value = _lerp;")
}

func TestDrawBuffersAndDepth(t *testing.T) {
	out, in := emit(t, target.Fragment, target.Level11_0, 0, `
#extension GL_EXT_draw_buffers : require
#extension GL_EXT_frag_depth : enable
precision mediump float;
void main() {
    gl_FragData[0] = vec4(1.0);
    gl_FragData[1] = vec4(0.0);
    gl_FragDepthEXT = 0.5;
}
`)
	if in.DrawBuffers != 4 {
		t.Fatalf("draw buffers = %d", in.DrawBuffers)
	}
	wantAll(t, out.Body, "static float4 gl_FragData[4];", "static float gl_FragDepthEXT")
	wantAll(t, out.Entry,
		"output.gl_Color3 = gl_FragData[3];",
		"float gl_Depth : SV_Depth;",
		"output.gl_Depth = gl_FragDepthEXT;",
	)
}

func TestNamerIsCaseInsensitive(t *testing.T) {
	n := newNamer()
	if got := n.call("_a"); got != "_a" {
		t.Fatalf("first = %q", got)
	}
	if got := n.call("_A"); got != "_A_1" {
		t.Fatalf("case clash = %q", got)
	}
	if got := n.call("float4"); got != "_float4" {
		t.Fatalf("reserved = %q", got)
	}
	n.reserve("s0")
	if got := n.call("S0"); got != "S0_2" {
		t.Fatalf("reserved clash = %q", got)
	}
}
