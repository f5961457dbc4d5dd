package token

var keywords = map[string]Kind{
	"attribute":   KwAttribute,
	"const":       KwConst,
	"uniform":     KwUniform,
	"varying":     KwVarying,
	"in":          KwIn,
	"out":         KwOut,
	"inout":       KwInout,
	"invariant":   KwInvariant,
	"precision":   KwPrecision,
	"lowp":        KwLowp,
	"mediump":     KwMediump,
	"highp":       KwHighp,
	"break":       KwBreak,
	"continue":    KwContinue,
	"do":          KwDo,
	"for":         KwFor,
	"while":       KwWhile,
	"if":          KwIf,
	"else":        KwElse,
	"discard":     KwDiscard,
	"return":      KwReturn,
	"struct":      KwStruct,
	"true":        KwTrue,
	"false":       KwFalse,
	"void":        KwVoid,
	"bool":        KwBool,
	"int":         KwInt,
	"float":       KwFloat,
	"vec2":        KwVec2,
	"vec3":        KwVec3,
	"vec4":        KwVec4,
	"bvec2":       KwBvec2,
	"bvec3":       KwBvec3,
	"bvec4":       KwBvec4,
	"ivec2":       KwIvec2,
	"ivec3":       KwIvec3,
	"ivec4":       KwIvec4,
	"mat2":        KwMat2,
	"mat3":        KwMat3,
	"mat4":        KwMat4,
	"sampler2D":   KwSampler2D,
	"samplerCube": KwSamplerCube,
}

// зарезервированы на будущее (GLSL ES 1.00, §3.7)
var reserved = map[string]struct{}{
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {}, "template": {},
	"this": {}, "packed": {}, "goto": {}, "switch": {}, "default": {}, "inline": {},
	"noinline": {}, "volatile": {}, "public": {}, "static": {}, "extern": {},
	"external": {}, "interface": {}, "flat": {}, "long": {}, "short": {},
	"double": {}, "half": {}, "fixed": {}, "unsigned": {}, "superp": {},
	"input": {}, "output": {}, "hvec2": {}, "hvec3": {}, "hvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {}, "fvec2": {}, "fvec3": {}, "fvec4": {},
	"sampler1D": {}, "sampler3D": {}, "sampler1DShadow": {}, "sampler2DShadow": {},
	"sampler2DRect": {}, "sampler3DRect": {}, "sampler2DRectShadow": {},
	"sizeof": {}, "cast": {}, "namespace": {}, "using": {},
}

// LookupKeyword returns the keyword kind for ident. Reserved words map to
// KwReserved. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	if k, ok := keywords[ident]; ok {
		return k, true
	}
	if _, ok := reserved[ident]; ok {
		return KwReserved, true
	}
	return Ident, false
}
