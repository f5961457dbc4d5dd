package sema

import (
	"fmt"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// HoistShortCircuits rewrites every pending conditional expression into an
// if/else that assigns a placeholder variable, so that only the selected arm
// is evaluated:
//
//	x = c ? a() : b();   =>   T s0; if (c) { s0 = a(); } else { s0 = b(); } x = s0;
//
// Conditionals are processed in the order they were encountered, outer
// before inner. Constant conditionals, conditionals at global scope and
// those in loop headers are left in place. The worklist is drained exactly
// once; the count of rewritten conditionals is returned.
func HoistShortCircuits(c *Context) (int, error) {
	if c.drained {
		return 0, diag.Internalf("hoist", "short-circuit worklist drained twice")
	}
	c.drained = true
	work := c.worklist
	c.worklist = nil
	if c.Flags.Has(target.OptNoShortCircuit) {
		return 0, nil
	}
	rewritten := 0
	for _, n := range work {
		if n.Released() || n.Parent() == nil || n.State != ast.Verified {
			continue
		}
		if c.IsConstant(n, false) || n.EnclosingFunction() == nil || inLoopHeader(n) {
			continue
		}
		if err := c.hoist(n); err != nil {
			return rewritten, err
		}
		rewritten++
	}
	return rewritten, nil
}

// inLoopHeader reports conditionals in a for header or a while/do condition.
func inLoopHeader(n *ast.Node) bool {
	for c, p := n, n.Parent(); p != nil; c, p = p, p.Parent() {
		switch p.Kind {
		case ast.KindFunctionDefinition:
			return false
		case ast.KindForStatement:
			if p.Child(ast.ForBody) != c {
				return true
			}
		case ast.KindWhileStatement:
			if p.Child(ast.WhileCond) == c {
				return true
			}
		case ast.KindDoStatement:
			if p.Child(ast.DoCond) == c {
				return true
			}
		}
	}
	return false
}

// isBodySlot reports whether c is a sub-statement of control flow p that
// has no block of its own.
func isBodySlot(p, c *ast.Node) bool {
	switch p.Kind {
	case ast.KindSelectionStatement:
		return p.Child(ast.SelThen) == c || p.Child(ast.SelElse) == c
	case ast.KindForStatement:
		return p.Child(ast.ForBody) == c
	case ast.KindWhileStatement:
		return p.Child(ast.WhileBody) == c
	case ast.KindDoStatement:
		return p.Child(ast.DoBody) == c
	}
	return false
}

// enclosingScope returns the innermost scope that contains n.
func (c *Context) enclosingScope(n *ast.Node) symbols.ScopeID {
	for p := n; p != nil; p = p.Parent() {
		if p.Kind.IntroducesScope() && p.Scope.IsValid() {
			return p.Scope
		}
	}
	return c.GlobalScope
}

// anchor finds the statement that evaluates n and the block holding it,
// wrapping a lone control-flow body into a fresh block on the way.
func (c *Context) anchor(n *ast.Node) (stmt, block *ast.Node, err error) {
	if n.EnclosingStatement() == nil {
		return nil, nil, diag.Internalf("hoist", "conditional is not inside a statement")
	}
	for ch, p := n, n.Parent(); p != nil; ch, p = p, p.Parent() {
		if p.Kind == ast.KindCompoundStatement {
			return ch, p, nil
		}
		if !isBodySlot(p, ch) {
			continue
		}
		idx, _ := p.IndexOf(ch)
		blk := c.synth(ast.KindCompoundStatement, ch.Span, c.Types.Builtins().Void)
		blk.Scope = c.NewScopeID(c.enclosingScope(p))
		if _, err := p.Replace(idx, blk); err != nil {
			return nil, nil, err
		}
		if err := blk.Append(ch); err != nil {
			return nil, nil, err
		}
		settle(blk)
		if err := c.verify(ch); err != nil {
			return nil, nil, err
		}
		return ch, blk, nil
	}
	return nil, nil, diag.Internalf("hoist", "statement has no enclosing block")
}

func (c *Context) synth(kind ast.Kind, sp source.Span, ty types.TypeID, children ...*ast.Node) *ast.Node {
	n := ast.New(kind, sp, children...)
	n.Type = ty
	n.State = ast.Verified
	n.Attr.Synthetic = true
	return n
}

// settle clears the moved mark on synthetic nodes; only moved-in original
// subtrees keep it.
func settle(n *ast.Node) {
	if n == nil || !n.Attr.Synthetic {
		return
	}
	n.Moved = false
	for _, ch := range n.Children() {
		settle(ch)
	}
}

func (c *Context) placeholderRef(sym symbols.SymbolID, sp source.Span, ty types.TypeID) *ast.Node {
	id := c.synth(ast.KindIdentifier, sp, ty)
	s := c.Symbols.Get(sym)
	id.Attr.Name = s.Name
	id.Attr.Symbol = sym
	return id
}

func (c *Context) assignStmt(lhs, rhs *ast.Node) *ast.Node {
	asg := c.synth(ast.KindAssignment, lhs.Span.Cover(rhs.Span), lhs.Type, lhs, rhs)
	asg.Attr.Op = token.Assign
	return c.synth(ast.KindExpressionStatement, asg.Span, c.Types.Builtins().Void, asg)
}

func (c *Context) hoist(n *ast.Node) error {
	stmt, block, err := c.anchor(n)
	if err != nil {
		return err
	}
	if stmt.Kind == ast.KindDeclaratorList {
		if stmt, err = c.splitDeclaration(stmt, block, n); err != nil {
			return err
		}
	}
	sp := n.Span
	ty := n.Type
	scope := c.enclosingScope(block)

	c.tempSeq++
	name := c.Strings.Intern(fmt.Sprintf("s%d", c.tempSeq-1))
	sym, ok := c.Symbols.Declare(symbols.Symbol{
		Name:     name,
		Kind:     symbols.SymbolVariable,
		Scope:    c.NewScopeID(scope),
		Span:     sp,
		Type:     ty,
		Qual:     symbols.QualTemporary,
		HLSLName: fmt.Sprintf("s%d", c.tempSeq-1),
	})
	if !ok {
		return diag.Internalf("hoist", "placeholder %d collides", c.tempSeq-1)
	}

	spec := c.synth(ast.KindTypeSpecifier, sp, ty, nil)
	ft := c.synth(ast.KindFullType, sp, ty, spec)
	decl := c.synth(ast.KindDeclarator, sp, ty, nil, nil)
	decl.Attr.Name = name
	decl.Attr.Symbol = sym
	list := c.synth(ast.KindDeclaratorList, sp, ty, ft, decl)

	f, err := n.Replace(ast.CondFalse, nil)
	if err != nil {
		return err
	}
	t, err := n.Replace(ast.CondTrue, nil)
	if err != nil {
		return err
	}
	test, err := n.Replace(ast.CondTest, nil)
	if err != nil {
		return err
	}
	void := c.Types.Builtins().Void
	thenBlk := c.synth(ast.KindCompoundStatement, t.Span, void, c.assignStmt(c.placeholderRef(sym, t.Span, ty), t))
	thenBlk.Scope = c.NewScopeID(scope)
	elseBlk := c.synth(ast.KindCompoundStatement, f.Span, void, c.assignStmt(c.placeholderRef(sym, f.Span, ty), f))
	elseBlk.Scope = c.NewScopeID(scope)
	sel := c.synth(ast.KindSelectionStatement, sp, void, test, thenBlk, elseBlk)

	ref := c.placeholderRef(sym, sp, ty)
	if err := n.ReplaceWith(ref); err != nil {
		return err
	}
	n.Destroy()

	idx, ok := block.IndexOf(stmt)
	if !ok {
		return diag.Internalf("hoist", "anchor statement left its block")
	}
	if err := block.Attach(idx, list); err != nil {
		return err
	}
	if err := block.Attach(idx+1, sel); err != nil {
		return err
	}
	settle(list)
	settle(sel)
	settle(ref)
	c.Symbols.MarkWritten(sym)
	c.Symbols.MarkRead(sym)
	return nil
}

// splitDeclaration turns "T a = x, b = c ? y : z, d;" into
//
//	T a = x, b;  b = c ? y : z;  T d;
//
// and returns the assignment statement that now holds the conditional.
func (c *Context) splitDeclaration(list, block, n *ast.Node) (*ast.Node, error) {
	k := -1
	for i := ast.DeclListFirst; i < list.Len(); i++ {
		if d := list.Child(i); d != nil && d.IsAncestorOf(n) {
			k = i
			break
		}
	}
	if k < 0 {
		return nil, diag.Internalf("hoist", "conditional outside every declarator")
	}
	d := list.Child(k)
	initNode := d.Child(ast.DeclInitializer)
	if initNode == nil {
		return nil, diag.Internalf("hoist", "declarator without initializer holds a conditional")
	}
	expr, err := initNode.Replace(ast.InitExpr, nil)
	if err != nil {
		return nil, err
	}
	if err := d.SetChild(ast.DeclInitializer, nil); err != nil {
		return nil, err
	}

	var rest *ast.Node
	if k+1 < list.Len() {
		ft, err := list.Child(ast.DeclListType).Clone()
		if err != nil {
			return nil, err
		}
		rest = c.synth(ast.KindDeclaratorList, list.Span, list.Type, ft)
		for list.Len() > k+1 {
			moved, err := list.Extract(k + 1)
			if err != nil {
				return nil, err
			}
			if err := rest.Append(moved); err != nil {
				return nil, err
			}
		}
	}

	lhs := c.placeholderRef(d.Attr.Symbol, d.Span, d.Type)
	lhs.Attr.Name = d.Attr.Name
	asg := c.assignStmt(lhs, expr)

	idx, ok := block.IndexOf(list)
	if !ok {
		return nil, diag.Internalf("hoist", "declaration left its block")
	}
	if err := block.Attach(idx+1, asg); err != nil {
		return nil, err
	}
	settle(asg)
	if rest != nil {
		if err := block.Attach(idx+2, rest); err != nil {
			return nil, err
		}
		settle(rest)
	}
	c.Symbols.MarkWritten(d.Attr.Symbol)
	return asg, nil
}
