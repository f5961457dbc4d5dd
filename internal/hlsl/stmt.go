package hlsl

import (
	"fmt"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// emitter accumulates indented lines of one output section.
type emitter struct {
	b      strings.Builder
	indent int
}

func (e *emitter) line(format string, args ...any) {
	for range e.indent {
		e.b.WriteString("    ")
	}
	fmt.Fprintf(&e.b, format, args...)
	e.b.WriteByte('\n')
}

func (e *emitter) raw(s string) { e.b.WriteString(s) }

func (e *emitter) String() string { return e.b.String() }

// lineDirective emits #line when the statement starts a new source line.
func (w *Writer) lineDirective(e *emitter, n *ast.Node) {
	if w.opts.Line == nil || n.Attr.Synthetic {
		return
	}
	line, ok := w.opts.Line(n.Span)
	if !ok || line == w.lastLine {
		return
	}
	w.lastLine = line
	fmt.Fprintf(&e.b, "#line %d\n", line)
}

func (w *Writer) block(e *emitter, n *ast.Node) error {
	e.line("{")
	e.indent++
	for _, st := range n.Children() {
		if st == nil {
			continue
		}
		if err := w.stmt(e, st); err != nil {
			return err
		}
	}
	e.indent--
	e.line("}")
	return nil
}

// body emits a sub-statement, always as a braced block.
func (w *Writer) body(e *emitter, n *ast.Node) error {
	if n != nil && n.Kind == ast.KindCompoundStatement {
		return w.block(e, n)
	}
	e.line("{")
	e.indent++
	if n != nil {
		if err := w.stmt(e, n); err != nil {
			return err
		}
	}
	e.indent--
	e.line("}")
	return nil
}

func (w *Writer) stmt(e *emitter, n *ast.Node) error {
	w.lineDirective(e, n)
	switch n.Kind {
	case ast.KindCompoundStatement:
		return w.block(e, n)
	case ast.KindExpressionStatement:
		x := n.Child(ast.ExprStmtExpr)
		if x == nil {
			e.line(";")
			return nil
		}
		s, err := w.expr(x)
		if err != nil {
			return err
		}
		e.line("%s;", s)
	case ast.KindDeclaratorList:
		return w.localDeclaration(e, n)
	case ast.KindPrecisionDeclaration, ast.KindInvariantDeclaration:
	case ast.KindSelectionStatement:
		cond, err := w.expr(n.Child(ast.SelCond))
		if err != nil {
			return err
		}
		e.line("if (%s)", cond)
		if err := w.body(e, n.Child(ast.SelThen)); err != nil {
			return err
		}
		if els := n.Child(ast.SelElse); els != nil {
			e.line("else")
			return w.body(e, els)
		}
	case ast.KindForStatement:
		return w.forStatement(e, n)
	case ast.KindWhileStatement:
		cond, err := w.expr(n.Child(ast.WhileCond))
		if err != nil {
			return err
		}
		e.line("while (%s)", cond)
		return w.body(e, n.Child(ast.WhileBody))
	case ast.KindDoStatement:
		cond, err := w.expr(n.Child(ast.DoCond))
		if err != nil {
			return err
		}
		e.line("do")
		if err := w.body(e, n.Child(ast.DoBody)); err != nil {
			return err
		}
		e.line("while (%s);", cond)
	case ast.KindJumpStatement:
		return w.jump(e, n)
	default:
		return diag.Internalf("hlsl", "%s is not a statement", n.Kind)
	}
	return nil
}

func (w *Writer) jump(e *emitter, n *ast.Node) error {
	switch n.Attr.Op {
	case token.KwBreak:
		e.line("break;")
	case token.KwContinue:
		e.line("continue;")
	case token.KwDiscard:
		e.line("discard;")
	case token.KwReturn:
		v := n.Child(ast.JumpValue)
		if v == nil {
			e.line("return;")
			return nil
		}
		s, err := w.expr(v)
		if err != nil {
			return err
		}
		e.line("return %s;", s)
	default:
		return diag.Internalf("hlsl", "unknown jump %s", n.Attr.Op)
	}
	return nil
}

func (w *Writer) forStatement(e *emitter, n *ast.Node) error {
	var init string
	switch in := n.Child(ast.ForInit); {
	case in == nil:
	case in.Kind == ast.KindDeclaratorList:
		decls, err := w.declarators(in, false)
		if err != nil {
			return err
		}
		if len(decls) != 1 {
			return diag.Internalf("hlsl", "for initializer declares %d variables", len(decls))
		}
		init = decls[0]
	case in.Kind == ast.KindExpressionStatement && in.Child(ast.ExprStmtExpr) != nil:
		s, err := w.expr(in.Child(ast.ExprStmtExpr))
		if err != nil {
			return err
		}
		init = s
	}
	var cond, iter string
	var err error
	if c := n.Child(ast.ForCond); c != nil {
		if cond, err = w.expr(c); err != nil {
			return err
		}
	}
	if it := n.Child(ast.ForIter); it != nil {
		if iter, err = w.expr(it); err != nil {
			return err
		}
	}
	attr := "[unroll] "
	if info := n.Attr.Loop; info != nil && !info.Unroll {
		attr = "[loop] "
	}
	e.line("%sfor (%s; %s; %s)", attr, init, cond, iter)
	return w.body(e, n.Child(ast.ForBody))
}

// localDeclaration emits one HLSL declaration per declarator.
func (w *Writer) localDeclaration(e *emitter, n *ast.Node) error {
	decls, err := w.declarators(n, false)
	if err != nil {
		return err
	}
	for _, d := range decls {
		e.line("%s;", d)
	}
	return nil
}

// declarators renders each declarator of a list as "T name[N] = init".
// Struct definitions in the list are hoisted to the struct section.
func (w *Writer) declarators(n *ast.Node, global bool) ([]string, error) {
	ft := n.Child(ast.DeclListType)
	if ft == nil {
		return nil, diag.Internalf("hlsl", "declaration without a type")
	}
	if err := w.structsIn(ft); err != nil {
		return nil, err
	}
	prefix := ""
	if ft.Attr.Qual == symbols.QualConst {
		prefix = "const "
	}
	if global {
		prefix = "static " + prefix
	}
	var out []string
	for i := ast.DeclListFirst; i < n.Len(); i++ {
		d := n.Child(i)
		if d == nil {
			continue
		}
		s := w.c.Symbols.Get(d.Attr.Symbol)
		if s == nil {
			return nil, diag.Internalf("hlsl", "declarator without a symbol")
		}
		text := prefix + w.decl(s.Type, s.HLSLName)
		if initNode := d.Child(ast.DeclInitializer); initNode != nil {
			x := initNode.Child(ast.InitExpr)
			if global && ft.Attr.Qual != symbols.QualConst && !w.c.IsConstant(x, false) {
				w.deferred = append(w.deferred, d)
			} else {
				v, err := w.initializer(x)
				if err != nil {
					return nil, err
				}
				text += " = " + v
			}
		}
		out = append(out, text)
	}
	return out, nil
}

// initializer prefers the folded value of a constant expression.
func (w *Writer) initializer(x *ast.Node) (string, error) {
	if w.c.IsConstant(x, false) {
		if v, ok := w.c.Fold(x); ok && w.c.Types.ScalarKind(v.Type) != types.KindInvalid {
			return w.constant(v.Type, v.Values), nil
		}
	}
	return w.expr(x)
}
