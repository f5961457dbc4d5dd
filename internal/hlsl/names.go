package hlsl

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

// userName maps a GLSL identifier into the user namespace.
func (w *Writer) userName(glsl string) string {
	if w.opts.Flags.Has(target.OptPreserveNames) {
		return w.names.call(glsl)
	}
	return w.names.call("_" + glsl)
}

// fieldName spells a struct field. Fields live in their struct's own
// namespace and only need escaping.
func (w *Writer) fieldName(glsl string) string {
	if w.opts.Flags.Has(target.OptPreserveNames) {
		return Escape(glsl)
	}
	return "_" + glsl
}

// AssignNames gives every user symbol and struct type its HLSL name.
// Names already set by tree rewrites are kept. Interface variables are
// named first so that their spelling depends only on the declarations.
func (w *Writer) AssignNames(root *ast.Node) error {
	if root == nil || root.Kind != ast.KindTranslationUnit {
		return diag.Internalf("hlsl", "names: expected a translation unit")
	}
	ast.Inspect(root, func(n *ast.Node) bool {
		if n.Attr.Synthetic && n.Kind == ast.KindDeclarator {
			if s := w.c.Symbols.Get(n.Attr.Symbol); s != nil && s.HLSLName != "" {
				w.names.reserve(s.HLSLName)
			}
		}
		return true
	})
	w.c.Symbols.Each(func(_ symbols.SymbolID, s *symbols.Symbol) bool {
		if !s.Builtin() && s.Kind == symbols.SymbolVariable && s.Qual.Interface() && s.HLSLName == "" {
			s.HLSLName = w.userName(w.c.Strings.MustLookup(s.Name))
		}
		return true
	})
	var err error
	ast.Inspect(root, func(n *ast.Node) bool {
		if err != nil {
			return false
		}
		err = w.nameNode(n)
		return err == nil
	})
	return err
}

func (w *Writer) nameNode(n *ast.Node) error {
	switch n.Kind {
	case ast.KindDeclarator, ast.KindParameterDeclaration, ast.KindFunctionPrototype:
		if !n.Attr.Symbol.IsValid() {
			return nil
		}
		s := w.c.Symbols.Get(n.Attr.Symbol)
		if s == nil {
			return diag.Internalf("hlsl", "%s refers to a missing symbol", n.Kind)
		}
		if s.Builtin() || s.HLSLName != "" {
			return nil
		}
		name := w.c.Strings.MustLookup(s.Name)
		if s.Kind == symbols.SymbolFunction && name == "main" {
			s.HLSLName = MainFunction
			return nil
		}
		s.HLSLName = w.userName(name)
	case ast.KindStructSpecifier:
		if _, ok := w.structs[n.Type]; ok {
			return nil
		}
		var name string
		if n.Attr.Name != source.NoStringID {
			name = w.userName(w.c.Strings.MustLookup(n.Attr.Name))
			if s := w.c.Symbols.Get(n.Attr.Symbol); s != nil {
				s.HLSLName = name
			}
		} else {
			name = w.names.call(unnamedStruct)
		}
		w.structs[n.Type] = name
	}
	return nil
}
