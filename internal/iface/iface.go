// Package iface describes the externally visible interface of a translated
// unit: varyings for the stage linker, attributes and uniforms for the
// runtime, and the built-ins the emitted code relies on.
package iface

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/sema"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// Entry is one varying of the unit.
type Entry struct {
	Name      string           `msgpack:"name"`
	HLSLName  string           `msgpack:"hlsl"`
	Type      types.Descriptor `msgpack:"type"`
	Prec      types.Precision  `msgpack:"prec"`
	Invariant bool             `msgpack:"invariant"`
	// Used is set when the unit reads or writes the varying.
	Used bool `msgpack:"used"`
	// Text declares the backing static in the unit's own HLSL.
	Text string `msgpack:"text"`
	// TextIfUnused is what the linker adds when it keeps an entry the unit
	// never references. Empty when nothing is needed.
	TextIfUnused string           `msgpack:"text_unused"`
	Symbol       symbols.SymbolID `msgpack:"-"`
}

// Member renders the entry as a struct member without its semantic.
func (e Entry) Member() string {
	return Decl(e.Type, e.HLSLName)
}

// Attribute is one vertex input.
type Attribute struct {
	Name     string           `msgpack:"name"`
	HLSLName string           `msgpack:"hlsl"`
	Type     types.Descriptor `msgpack:"type"`
	Used     bool             `msgpack:"used"`
	// Semantic is the first TEXCOORD index; matrices take one per column.
	Semantic int              `msgpack:"semantic"`
	Symbol   symbols.SymbolID `msgpack:"-"`
}

// Uniform is one uniform declaration.
type Uniform struct {
	Name     string `msgpack:"name"`
	HLSLName string `msgpack:"hlsl"`
	// Type is the GLSL spelling; structs keep their declared name.
	Type string `msgpack:"type"`
	Used bool   `msgpack:"used"`
	// Register is "s<N>" for samplers and empty otherwise.
	Register string           `msgpack:"register"`
	Symbol   symbols.SymbolID `msgpack:"-"`
}

// Usage is the per-identifier usage record of a user symbol.
type Usage struct {
	Name     string `msgpack:"name"`
	HLSLName string `msgpack:"hlsl"`
	Kind     string `msgpack:"kind"`
	Reads    uint32 `msgpack:"reads"`
	Writes   uint32 `msgpack:"writes"`
}

// Interface is built once per unit right before emission.
type Interface struct {
	Stage      target.Stage `msgpack:"stage"`
	Level      target.Level `msgpack:"level"`
	Varyings   []Entry      `msgpack:"varyings"`
	Attributes []Attribute  `msgpack:"attributes"`
	Uniforms   []Uniform    `msgpack:"uniforms"`
	// Builtins names the gl_* variables and features the unit uses.
	Builtins []string `msgpack:"builtins"`
	// DrawBuffers is the length of gl_FragData.
	DrawBuffers int     `msgpack:"draw_buffers"`
	Usage       []Usage `msgpack:"usage"`
}

// Build collects the interface of a verified unit. HLSL names must already
// be assigned.
func Build(c *sema.Context) (*Interface, error) {
	in := &Interface{
		Stage:    c.Stage,
		Level:    c.Level,
		Builtins: c.Features.Strings(),
	}
	samplers, semantic := 0, 0
	var err error
	c.Symbols.Each(func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Builtin() {
			if c.Strings.MustLookup(s.Name) == "gl_FragData" {
				in.DrawBuffers = int(c.Types.ArrayLen(s.Type))
			}
			return true
		}
		name := c.Strings.MustLookup(s.Name)
		used := s.Reads+s.Writes > 0
		switch s.Kind {
		case symbols.SymbolVariable:
			switch s.Qual {
			case symbols.QualVarying:
				d := c.Types.Describe(s.Type)
				in.Varyings = append(in.Varyings, Entry{
					Name:         name,
					HLSLName:     s.HLSLName,
					Type:         d,
					Prec:         s.Prec,
					Invariant:    s.Flags&symbols.SymbolFlagInvariant != 0,
					Used:         used,
					Text:         "static " + Decl(d, s.HLSLName) + ";",
					TextIfUnused: unusedText(c.Stage, d, s.HLSLName),
					Symbol:       id,
				})
			case symbols.QualAttribute:
				d := c.Types.Describe(s.Type)
				in.Attributes = append(in.Attributes, Attribute{
					Name:     name,
					HLSLName: s.HLSLName,
					Type:     d,
					Used:     used,
					Semantic: semantic,
					Symbol:   id,
				})
				semantic += d.Rows()
			case symbols.QualUniform:
				u := Uniform{
					Name:     name,
					HLSLName: s.HLSLName,
					Type:     c.Types.Name(s.Type),
					Used:     used,
					Symbol:   id,
				}
				if c.Types.IsSampler(c.Types.Elem(s.Type)) || c.Types.IsSampler(s.Type) {
					u.Register = fmt.Sprintf("s%d", samplers)
					n := 1
					if c.Types.IsArray(s.Type) {
						if n, err = safecast.Conv[int](c.Types.ArrayLen(s.Type)); err != nil {
							return false
						}
					}
					samplers += n
				}
				in.Uniforms = append(in.Uniforms, u)
			}
		}
		if s.Kind != symbols.SymbolStruct && s.HLSLName != "" {
			in.Usage = append(in.Usage, Usage{
				Name:     name,
				HLSLName: s.HLSLName,
				Kind:     s.Kind.String(),
				Reads:    s.Reads,
				Writes:   s.Writes,
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

// unusedText is the declaration a retained but unreferenced varying needs.
// The vertex side still has to write a defined value; the fragment side
// only needs the struct member.
func unusedText(st target.Stage, d types.Descriptor, name string) string {
	if st == target.Fragment {
		return ""
	}
	zero := "(" + d.HLSL() + ")0"
	if d.ArrayLen == 0 {
		return "static const " + Decl(d, name) + " = " + zero + ";"
	}
	elems := make([]string, d.ArrayLen)
	for i := range elems {
		elems[i] = zero
	}
	return "static const " + Decl(d, name) + " = {" + strings.Join(elems, ", ") + "};"
}

// Decl renders "T name" or "T name[N]" in HLSL spelling.
func Decl(d types.Descriptor, name string) string {
	if d.ArrayLen > 0 {
		return fmt.Sprintf("%s %s[%d]", d.HLSL(), name, d.ArrayLen)
	}
	return d.HLSL() + " " + name
}

// Uses reports whether the unit references the named built-in or feature.
func (in *Interface) Uses(name string) bool {
	for _, b := range in.Builtins {
		if b == name {
			return true
		}
	}
	return false
}

// Varying finds a varying by GLSL name.
func (in *Interface) Varying(name string) (Entry, bool) {
	for _, e := range in.Varyings {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// UsedVaryings returns the referenced varyings in declaration order.
func (in *Interface) UsedVaryings() []Entry {
	var out []Entry
	for _, e := range in.Varyings {
		if e.Used {
			out = append(out, e)
		}
	}
	return out
}
