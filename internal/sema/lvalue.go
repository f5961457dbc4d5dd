package sema

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

// markWritten checks that n denotes a writable location and records the
// write on the variable at its root.
func (c *Context) markWritten(n *ast.Node) error {
	switch n.Kind {
	case ast.KindIdentifier:
		return c.writeSymbol(n)
	case ast.KindIndex:
		return c.markWritten(n.Child(ast.IndexBase))
	case ast.KindFieldSelection:
		base := n.Child(ast.FieldBase)
		if c.Types.IsVector(base.Type) {
			comps, _ := Swizzle(c.name(n.Attr.Name))
			var seen [4]bool
			for _, i := range comps {
				if seen[i] {
					return c.errorf(diag.SemaNotLValue, n.Span, "swizzle '%s' repeats a component and cannot be assigned", c.name(n.Attr.Name))
				}
				seen[i] = true
			}
		}
		return c.markWritten(base)
	}
	return c.errorf(diag.SemaNotLValue, n.Span, "expression is not assignable")
}

func (c *Context) writeSymbol(n *ast.Node) error {
	id := n.Attr.Symbol
	sym := c.Symbols.Get(id)
	if sym == nil {
		return diag.Internalf("verify", "write to an unresolved identifier")
	}
	name := c.name(sym.Name)
	switch {
	case sym.Flags&symbols.SymbolFlagReadOnly != 0:
		return c.errorf(diag.SemaNotLValue, n.Span, "'%s' is read-only", name)
	case sym.Qual == symbols.QualConst, sym.Qual == symbols.QualConstIn:
		return c.errorf(diag.SemaNotLValue, n.Span, "'%s' is const", name)
	case sym.Qual == symbols.QualUniform, sym.Qual == symbols.QualAttribute:
		return c.errorf(diag.SemaNotLValue, n.Span, "%s '%s' is read-only", sym.Qual, name)
	case sym.Qual == symbols.QualVarying && c.Stage == target.Fragment:
		return c.errorf(diag.SemaNotLValue, n.Span, "varying '%s' is read-only in fragment shaders", name)
	}
	if sym.Flags&symbols.SymbolFlagLoopIndex != 0 {
		loop := c.loopOwner[id]
		if loop == nil {
			return diag.Internalf("verify", "loop index without an owning loop")
		}
		if iter := loop.Child(ast.ForIter); iter == nil || (iter != n && !iter.IsAncestorOf(n)) {
			return c.errorf(diag.LoopIndexWritten, n.Span, "loop index '%s' cannot be modified in the loop body", name)
		}
	}
	c.Symbols.MarkWritten(id)
	return nil
}
