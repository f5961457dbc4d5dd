package hlsl

import (
	"strconv"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

// entry writes the shader entry point. It copies inputs into the statics
// the translated code reads, runs gl_main and copies the outputs back. The
// varying structs and the emulation helpers come from the stage linker.
func (w *Writer) entry(in *iface.Interface) (string, error) {
	var e emitter
	if w.c.Stage == target.Vertex {
		params := ""
		if len(in.Attributes) > 0 {
			e.line("struct %s", VertexInput)
			e.line("{")
			e.indent++
			for _, a := range in.Attributes {
				e.line("%s : TEXCOORD%d;", iface.Decl(a.Type, a.HLSLName), a.Semantic)
			}
			e.indent--
			e.line("};")
			e.raw("\n")
			params = VertexInput + " input"
		}
		e.line("%s main(%s)", VertexOutput, params)
		e.line("{")
		e.indent++
		for _, a := range in.Attributes {
			e.line("%s = input.%s;", a.HLSLName, a.HLSLName)
		}
		e.line("%s();", MainFunction)
		e.line("%s output;", VertexOutput)
		e.line("%s(output);", WriteEmulation)
		e.line("return output;")
		e.indent--
		e.line("}")
		return e.String(), nil
	}

	targets := fragmentTargets(in)
	e.line("struct %s", FragmentOutput)
	e.line("{")
	e.indent++
	for i := range targets {
		e.line("float4 gl_Color%d : SV_Target%d;", i, i)
	}
	if in.Uses("gl_FragDepthEXT") {
		e.line("float gl_Depth : SV_Depth;")
	}
	e.indent--
	e.line("};")
	e.raw("\n")
	e.line("%s main(%s input)", FragmentOutput, FragmentInput)
	e.line("{")
	e.indent++
	e.line("%s(input);", ReadEmulation)
	e.line("%s();", MainFunction)
	e.line("%s output;", FragmentOutput)
	for i, src := range targets {
		e.line("output.gl_Color%d = %s;", i, src)
	}
	if in.Uses("gl_FragDepthEXT") {
		e.line("output.gl_Depth = gl_FragDepthEXT;")
	}
	e.line("return output;")
	e.indent--
	e.line("}")
	return e.String(), nil
}

// fragmentTargets lists the value written to each render target.
// gl_FragColor is broadcast to every draw buffer when the draw buffers
// extension is enabled.
func fragmentTargets(in *iface.Interface) []string {
	n := max(in.DrawBuffers, 1)
	out := make([]string, n)
	for i := range out {
		if in.Uses("gl_FragData") {
			out[i] = "gl_FragData[" + strconv.Itoa(i) + "]"
		} else {
			out[i] = "gl_FragColor"
		}
	}
	return out
}
