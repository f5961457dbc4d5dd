package sema

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// Implementation limits exposed through the gl_Max* constants.
const (
	maxVertexAttribs            = 16
	maxVertexUniformVectors     = 254
	maxVertexTextureImageUnits  = 4
	maxCombinedTextureUnits     = 20
	maxTextureImageUnits        = 16
	maxFragmentUniformVectors   = 221
	maxDrawBuffersWithExtension = 4
)

func (c *Context) builtinVar(name string, ty types.TypeID, prec types.Precision, flags symbols.SymbolFlags, ext string) symbols.SymbolID {
	id, _ := c.Symbols.Declare(symbols.Symbol{
		Name:      c.Strings.Intern(name),
		Kind:      symbols.SymbolVariable,
		Scope:     c.BuiltinScope,
		Type:      ty,
		Prec:      prec,
		Flags:     flags | symbols.SymbolFlagBuiltin,
		Extension: ext,
		HLSLName:  name,
	})
	return id
}

func (c *Context) builtinConst(name string, v int32) {
	id := c.builtinVar(name, c.Types.Builtins().Int, types.PrecisionMedium, symbols.SymbolFlagReadOnly, "")
	sym := c.Symbols.Get(id)
	sym.Qual = symbols.QualConst
	sym.Const = &types.Constant{Type: sym.Type, Values: []types.Value{types.IntValue(v)}}
}

func (c *Context) builtinFunc(name, ext string, result types.TypeID, params ...types.TypeID) {
	sig := &symbols.Signature{Result: result, Params: make([]symbols.Param, len(params))}
	for i, p := range params {
		sig.Params[i] = symbols.Param{Type: p, Qual: symbols.QualIn}
	}
	c.Symbols.Declare(symbols.Symbol{
		Name:      c.Strings.Intern(name),
		Kind:      symbols.SymbolFunction,
		Scope:     c.BuiltinScope,
		Type:      result,
		Flags:     symbols.SymbolFlagBuiltin | symbols.SymbolFlagDefined,
		Signature: sig,
		Extension: ext,
		HLSLName:  name,
	})
}

// declareBuiltins populates the built-in scope for the context's stage.
func (c *Context) declareBuiltins() {
	b := c.Types.Builtins()
	gen := []types.TypeID{b.Float, b.Vec[2], b.Vec[3], b.Vec[4]}
	ro := symbols.SymbolFlagReadOnly

	// variables
	if c.Stage == target.Vertex {
		c.builtinVar("gl_Position", b.Vec[4], types.PrecisionHigh, 0, "")
		c.builtinVar("gl_PointSize", b.Float, types.PrecisionMedium, 0, "")
	} else {
		c.builtinVar("gl_FragCoord", b.Vec[4], types.PrecisionMedium, ro, "")
		c.builtinVar("gl_FrontFacing", b.Bool, types.PrecisionNone, ro, "")
		c.builtinVar("gl_PointCoord", b.Vec[2], types.PrecisionMedium, ro, "")
		c.builtinVar("gl_FragColor", b.Vec[4], types.PrecisionMedium, 0, "")
		c.builtinVar("gl_FragData", c.Types.Array(b.Vec[4], uint32(c.maxDrawBuffers())), types.PrecisionMedium, 0, "")
		c.builtinVar("gl_FragDepthEXT", b.Float, types.PrecisionHigh, 0, pp.ExtFragDepth)
	}

	// constants
	c.builtinConst("gl_MaxVertexAttribs", maxVertexAttribs)
	c.builtinConst("gl_MaxVertexUniformVectors", maxVertexUniformVectors)
	c.builtinConst("gl_MaxVaryingVectors", int32(c.Level.MaxVaryingVectors()))
	c.builtinConst("gl_MaxVertexTextureImageUnits", maxVertexTextureImageUnits)
	c.builtinConst("gl_MaxCombinedTextureImageUnits", maxCombinedTextureUnits)
	c.builtinConst("gl_MaxTextureImageUnits", maxTextureImageUnits)
	c.builtinConst("gl_MaxFragmentUniformVectors", maxFragmentUniformVectors)
	c.builtinConst("gl_MaxDrawBuffers", int32(c.maxDrawBuffers()))

	// angle and trigonometry, exponential, common
	for _, g := range gen {
		for _, name := range []string{
			"radians", "degrees", "sin", "cos", "tan", "asin", "acos", "atan",
			"exp", "log", "exp2", "log2", "sqrt", "inversesqrt",
			"abs", "sign", "floor", "ceil", "fract", "normalize",
		} {
			c.builtinFunc(name, "", g, g)
		}
		for _, name := range []string{"atan", "pow", "mod", "min", "max", "step", "reflect"} {
			c.builtinFunc(name, "", g, g, g)
		}
		if g != b.Float {
			for _, name := range []string{"mod", "min", "max"} {
				c.builtinFunc(name, "", g, g, b.Float)
			}
			c.builtinFunc("clamp", "", g, g, b.Float, b.Float)
			c.builtinFunc("mix", "", g, g, g, b.Float)
			c.builtinFunc("step", "", g, b.Float, g)
			c.builtinFunc("smoothstep", "", g, b.Float, b.Float, g)
		}
		c.builtinFunc("clamp", "", g, g, g, g)
		c.builtinFunc("mix", "", g, g, g, g)
		c.builtinFunc("smoothstep", "", g, g, g, g)
		c.builtinFunc("faceforward", "", g, g, g, g)
		c.builtinFunc("refract", "", g, g, g, b.Float)
		c.builtinFunc("length", "", b.Float, g)
		c.builtinFunc("distance", "", b.Float, g, g)
		c.builtinFunc("dot", "", b.Float, g, g)
		if c.Stage == target.Fragment {
			for _, name := range []string{"dFdx", "dFdy", "fwidth"} {
				c.builtinFunc(name, pp.ExtStandardDerivatives, g, g)
			}
		}
	}
	c.builtinFunc("cross", "", b.Vec[3], b.Vec[3], b.Vec[3])

	// matrix and vector relational
	for n := 2; n <= 4; n++ {
		c.builtinFunc("matrixCompMult", "", b.Mat[n], b.Mat[n], b.Mat[n])
		for _, v := range []types.TypeID{b.Vec[n], b.IVec[n]} {
			for _, name := range []string{"lessThan", "lessThanEqual", "greaterThan", "greaterThanEqual"} {
				c.builtinFunc(name, "", b.BVec[n], v, v)
			}
		}
		for _, v := range []types.TypeID{b.Vec[n], b.IVec[n], b.BVec[n]} {
			c.builtinFunc("equal", "", b.BVec[n], v, v)
			c.builtinFunc("notEqual", "", b.BVec[n], v, v)
		}
		c.builtinFunc("any", "", b.Bool, b.BVec[n])
		c.builtinFunc("all", "", b.Bool, b.BVec[n])
		c.builtinFunc("not", "", b.BVec[n], b.BVec[n])
	}

	// texture lookup
	c.builtinFunc("texture2D", "", b.Vec[4], b.Sampler2D, b.Vec[2])
	c.builtinFunc("texture2DProj", "", b.Vec[4], b.Sampler2D, b.Vec[3])
	c.builtinFunc("texture2DProj", "", b.Vec[4], b.Sampler2D, b.Vec[4])
	c.builtinFunc("textureCube", "", b.Vec[4], b.SamplerCube, b.Vec[3])
	if c.Stage == target.Vertex {
		c.builtinFunc("texture2DLod", "", b.Vec[4], b.Sampler2D, b.Vec[2], b.Float)
		c.builtinFunc("texture2DProjLod", "", b.Vec[4], b.Sampler2D, b.Vec[3], b.Float)
		c.builtinFunc("texture2DProjLod", "", b.Vec[4], b.Sampler2D, b.Vec[4], b.Float)
		c.builtinFunc("textureCubeLod", "", b.Vec[4], b.SamplerCube, b.Vec[3], b.Float)
	} else {
		c.builtinFunc("texture2D", "", b.Vec[4], b.Sampler2D, b.Vec[2], b.Float)
		c.builtinFunc("texture2DProj", "", b.Vec[4], b.Sampler2D, b.Vec[3], b.Float)
		c.builtinFunc("texture2DProj", "", b.Vec[4], b.Sampler2D, b.Vec[4], b.Float)
		c.builtinFunc("textureCube", "", b.Vec[4], b.SamplerCube, b.Vec[3], b.Float)
	}
}

func (c *Context) maxDrawBuffers() int {
	if c.Extensions.Enabled(pp.ExtDrawBuffers) {
		return maxDrawBuffersWithExtension
	}
	return 1
}

// IsTextureFunction reports built-ins that sample a texture; they are never
// constant expressions.
func IsTextureFunction(name string) bool {
	switch name {
	case "texture2D", "texture2DProj", "textureCube",
		"texture2DLod", "texture2DProjLod", "textureCubeLod":
		return true
	}
	return false
}
