package sema

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// Verify runs the three-phase walk over the tree rooted at root:
// pre-verify, verify children, verify self. The first user error stops the
// walk and is returned as diag.ErrReported after being reported; a broken
// tree invariant is returned as a *diag.InternalError.
func Verify(c *Context, root *ast.Node) error {
	if root == nil || root.Kind != ast.KindTranslationUnit {
		return diag.Internalf("verify", "root must be a translation unit")
	}
	return c.verify(root)
}

func (c *Context) verify(n *ast.Node) error {
	if n.State == ast.Verified {
		if n.Moved {
			return c.recheckMoved(n)
		}
		return nil
	}
	if err := c.preVerify(n); err != nil {
		return err
	}
	n.State = ast.PreVerified
	if err := c.verifyChildren(n); err != nil {
		return err
	}
	if err := c.verifySelf(n); err != nil {
		return err
	}
	if n.Scope.IsValid() && n.Kind.IntroducesScope() {
		c.popScope()
	}
	n.State = ast.Verified
	return nil
}

// recheckMoved re-runs the placement rules that depend on ancestors for a
// verified subtree attached under a new parent.
func (c *Context) recheckMoved(n *ast.Node) error {
	var err error
	ast.Inspect(n, func(m *ast.Node) bool {
		if err != nil {
			return false
		}
		if m.Kind == ast.KindJumpStatement && (m.Attr.Op == token.KwBreak || m.Attr.Op == token.KwContinue) && !m.InsideLoop() {
			err = c.errorf(diag.SemaBreakOutsideLoop, m.Span, "'%s' outside of a loop", m.Attr.Op)
		}
		return err == nil
	})
	return err
}

// preVerify makes the decisions that must happen in source order before
// any child is looked at.
func (c *Context) preVerify(n *ast.Node) error {
	switch n.Kind {
	case ast.KindCompoundStatement:
		p := n.Parent()
		if p != nil && p.Kind == ast.KindForStatement {
			// the for header already opened this scope
			n.Scope = symbols.NoScopeID
			return nil
		}
		n.Scope = c.pushScope(symbols.ScopeBlock)
		if p != nil && p.Kind == ast.KindFunctionDefinition {
			return c.enterFunctionBody(p, n)
		}
	case ast.KindForStatement:
		n.Scope = c.pushScope(symbols.ScopeBlock)
	case ast.KindStructDeclarationList:
		n.Scope = c.pushScope(symbols.ScopeStruct)
	case ast.KindConditional:
		if c.drained {
			return diag.Internalf("verify", "conditional registered after the worklist was drained")
		}
		c.worklist = append(c.worklist, n)
	}
	return nil
}

func (c *Context) verifyChildren(n *ast.Node) error {
	if n.Kind == ast.KindInvariantDeclaration {
		// names are resolved without counting as uses
		return nil
	}
	return n.ForEachChild(func(_ int, child *ast.Node) error {
		if child.Parent() != n {
			return diag.Internalf("verify", "%s child has a foreign parent", n.Kind)
		}
		return c.verify(child)
	})
}

func (c *Context) verifySelf(n *ast.Node) error {
	switch n.Kind {
	case ast.KindTranslationUnit:
		return c.verifyUnit(n)
	case ast.KindFunctionDefinition:
		return c.verifyFunctionDefinition(n)
	case ast.KindFunctionPrototype:
		return c.verifyPrototype(n)
	case ast.KindParameterDeclaration:
		return c.verifyParameter(n)
	case ast.KindDeclaratorList:
		return c.verifyDeclaratorList(n)
	case ast.KindDeclarator:
		return c.verifyDeclarator(n)
	case ast.KindFullType:
		return c.verifyFullType(n)
	case ast.KindTypeSpecifier:
		return c.verifyTypeSpecifier(n)
	case ast.KindStructSpecifier:
		return c.verifyStructSpecifier(n)
	case ast.KindStructDeclarationList, ast.KindStructDeclaration:
		return nil
	case ast.KindStructDeclarator:
		return c.verifyStructDeclarator(n)
	case ast.KindPrecisionDeclaration:
		return c.verifyPrecision(n)
	case ast.KindInvariantDeclaration:
		return c.verifyInvariant(n)
	case ast.KindCompoundStatement, ast.KindExpressionStatement:
		return nil
	case ast.KindSelectionStatement:
		return c.verifyCondition(n.Child(ast.SelCond))
	case ast.KindForStatement:
		return c.verifyFor(n)
	case ast.KindWhileStatement:
		return c.verifyCondition(n.Child(ast.WhileCond))
	case ast.KindDoStatement:
		return c.verifyCondition(n.Child(ast.DoCond))
	case ast.KindJumpStatement:
		return c.verifyJump(n)
	case ast.KindExpressionList:
		return c.verifyExpressionList(n)
	case ast.KindAssignment:
		return c.verifyAssignment(n)
	case ast.KindConditional:
		return c.verifyConditional(n)
	case ast.KindBinary:
		return c.verifyBinary(n)
	case ast.KindUnary:
		return c.verifyUnary(n)
	case ast.KindFunctionCall:
		return c.verifyCall(n)
	case ast.KindConstructor:
		return c.verifyConstructor(n)
	case ast.KindIndex:
		return c.verifyIndex(n)
	case ast.KindFieldSelection:
		return c.verifyFieldSelection(n)
	case ast.KindIdentifier:
		return c.verifyIdentifier(n)
	case ast.KindLiteral:
		n.Type = c.literalType(n)
		return nil
	case ast.KindArraySize:
		return c.verifyArraySize(n)
	case ast.KindInitializer:
		n.Type = n.Child(ast.InitExpr).Type
		return nil
	}
	return diag.Internalf("verify", "no rule for %s", n.Kind)
}

// require returns child i of n or an internal error when the slot is empty.
func require(n *ast.Node, i int) (*ast.Node, error) {
	c := n.Child(i)
	if c == nil {
		return nil, diag.Internalf("verify", "%s is missing required child %d", n.Kind, i)
	}
	return c, nil
}
