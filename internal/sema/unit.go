package sema

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// Varying describes one user varying of a verified unit.
type Varying struct {
	Name      string
	Type      types.TypeID
	Prec      types.Precision
	Invariant bool
	Symbol    symbols.SymbolID
}

// Varyings lists the user-declared varyings in declaration order.
func (c *Context) Varyings() []Varying {
	var out []Varying
	c.Symbols.Each(func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Qual == symbols.QualVarying && !s.Builtin() {
			out = append(out, Varying{
				Name:      c.name(s.Name),
				Type:      s.Type,
				Prec:      s.Prec,
				Invariant: s.Flags&symbols.SymbolFlagInvariant != 0,
				Symbol:    id,
			})
		}
		return true
	})
	return out
}

// VaryingRows is the number of interpolator registers the varyings of the
// unit occupy.
func (c *Context) VaryingRows() int {
	rows := 0
	for _, v := range c.Varyings() {
		rows += c.Types.Rows(v.Type)
	}
	return rows
}

func (c *Context) checkVaryingBudget(n *ast.Node) error {
	limit := c.Level.MaxVaryingVectors()
	if rows := c.VaryingRows(); rows > limit {
		return c.errorf(diag.SemaTooManyVaryings, n.Span.ZeroideToStart(),
			"varyings need %d registers but feature level %s provides %d", rows, c.Level, limit)
	}
	return nil
}
