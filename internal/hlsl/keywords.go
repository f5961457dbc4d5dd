// Package hlsl writes HLSL for a verified and hoisted GLSL ES unit.
package hlsl

import "strings"

// Names of the generated entry points and emulation helpers. The linker
// produces the emulation helpers; the unit calls them from its entry point.
const (
	MainFunction     = "gl_main"
	ReadEmulation    = "gl_read_emulation_value"
	WriteEmulation   = "gl_write_emulation_value"
	VertexInput      = "VS_INPUT"
	VertexOutput     = "VS_OUTPUT"
	FragmentInput    = "PS_INPUT"
	FragmentOutput   = "PS_OUTPUT"
	unnamedStruct    = "gl_struct"
	unnamedParameter = "gl_param"
)

// reservedWords are HLSL keywords, types and intrinsics a preserved GLSL
// name may collide with.
var reservedWords = func() map[string]struct{} {
	words := []string{
		// keywords
		"asm", "asm_fragment", "BlendState", "bool", "break", "Buffer", "case", "cbuffer",
		"centroid", "class", "column_major", "compile", "compile_fragment", "CompileShader",
		"const", "continue", "ComputeShader", "default", "DepthStencilState", "DepthStencilView",
		"discard", "do", "double", "DomainShader", "dword", "else", "export", "extern", "false",
		"float", "for", "fxgroup", "GeometryShader", "groupshared", "half", "Hullshader", "if",
		"in", "inline", "inout", "InputPatch", "int", "interface", "line", "lineadj", "linear",
		"LineStream", "matrix", "min16float", "min10float", "min16int", "min12int", "min16uint",
		"namespace", "nointerpolation", "noperspective", "NULL", "out", "OutputPatch",
		"packoffset", "pass", "pixelfragment", "PixelShader", "point", "PointStream", "precise",
		"RasterizerState", "RenderTargetView", "return", "register", "row_major", "RWBuffer",
		"RWByteAddressBuffer", "RWStructuredBuffer", "RWTexture1D", "RWTexture1DArray",
		"RWTexture2D", "RWTexture2DArray", "RWTexture3D", "sample", "sampler", "SamplerState",
		"SamplerComparisonState", "shared", "snorm", "stateblock", "stateblock_state", "static",
		"string", "struct", "switch", "StructuredBuffer", "tbuffer", "technique", "technique10",
		"technique11", "texture", "Texture1D", "Texture1DArray", "Texture2D", "Texture2DArray",
		"Texture2DMS", "Texture2DMSArray", "Texture3D", "TextureCube", "TextureCubeArray", "true",
		"typedef", "triangle", "triangleadj", "TriangleStream", "uint", "uniform", "unorm",
		"unsigned", "vector", "vertexfragment", "VertexShader", "void", "volatile", "while",
		"sampler1D", "sampler2D", "sampler3D", "samplerCUBE", "auto", "catch", "char", "const_cast",
		"delete", "dynamic_cast", "enum", "explicit", "friend", "goto", "long", "mutable", "new",
		"operator", "private", "protected", "public", "reinterpret_cast", "short", "signed",
		"sizeof", "static_cast", "template", "this", "throw", "try", "typename", "union", "using",
		"virtual",
		// intrinsics
		"abort", "abs", "acos", "all", "any", "asfloat", "asin", "asint", "asuint", "atan",
		"atan2", "ceil", "clamp", "clip", "cos", "cosh", "countbits", "cross", "ddx", "ddx_coarse",
		"ddx_fine", "ddy", "ddy_coarse", "ddy_fine", "degrees", "determinant", "distance", "dot",
		"dst", "errorf", "exp", "exp2", "f16tof32", "f32tof16", "faceforward", "firstbithigh",
		"firstbitlow", "floor", "fma", "fmod", "frac", "frexp", "fwidth", "isfinite", "isinf",
		"isnan", "ldexp", "length", "lerp", "lit", "log", "log10", "log2", "mad", "max", "min",
		"modf", "msad4", "mul", "noise", "normalize", "pow", "printf", "radians", "rcp", "reflect",
		"refract", "reversebits", "round", "rsqrt", "saturate", "sign", "sin", "sincos", "sinh",
		"smoothstep", "sqrt", "step", "tan", "tanh", "tex1D", "tex1Dbias", "tex1Dgrad", "tex1Dlod",
		"tex1Dproj", "tex2D", "tex2Dbias", "tex2Dgrad", "tex2Dlod", "tex2Dproj", "tex3D",
		"tex3Dbias", "tex3Dgrad", "tex3Dlod", "tex3Dproj", "texCUBE", "texCUBEbias", "texCUBEgrad",
		"texCUBElod", "texCUBEproj", "transpose", "trunc",
		// generated
		MainFunction, ReadEmulation, WriteEmulation, VertexInput, VertexOutput, FragmentInput,
		FragmentOutput, "main", "input", "output",
	}
	m := make(map[string]struct{}, len(words)+64)
	for _, w := range words {
		m[w] = struct{}{}
	}
	for _, base := range []string{"bool", "int", "uint", "half", "float", "double", "dword"} {
		for r := 1; r <= 4; r++ {
			m[base+string(rune('0'+r))] = struct{}{}
			for c := 1; c <= 4; c++ {
				m[base+string(rune('0'+r))+"x"+string(rune('0'+c))] = struct{}{}
			}
		}
	}
	return m
}()

// caseInsensitiveWords are legacy effect keywords fxc matches in any case.
var caseInsensitiveWords = map[string]struct{}{
	"asm": {}, "decl": {}, "pass": {}, "technique": {}, "texture1d": {}, "texture2d": {},
	"texture3d": {}, "texturecube": {}, "vertexshader": {}, "pixelshader": {},
}

// IsReserved reports whether name cannot be used verbatim as an HLSL
// identifier.
func IsReserved(name string) bool {
	if _, ok := reservedWords[name]; ok {
		return true
	}
	_, ok := caseInsensitiveWords[strings.ToLower(name)]
	return ok
}

// Escape prefixes reserved names with an underscore.
func Escape(name string) string {
	if IsReserved(name) {
		return "_" + name
	}
	return name
}
