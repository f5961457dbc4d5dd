// Package testkit holds tree invariant checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// CheckTree runs the structural invariants of a tree rooted at root:
// 1) every child points back at the collection holding it
// 2) no reachable node was destroyed
// 3) every non-empty span lies in sf, inside its content bounds
func CheckTree(root *ast.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	if root.Parent() != nil {
		return fmt.Errorf("root %s has a parent", root.Kind)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(root, sf.ID, size)
}

func checkNode(n *ast.Node, file source.FileID, size uint32) error {
	if n.Released() {
		return fmt.Errorf("%s: reachable node was destroyed", n.Kind)
	}
	sp := n.Span
	if !sp.Empty() {
		if sp.File != file {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", n.Kind, sp.File, file)
		}
		if sp.End < sp.Start || sp.End > size {
			return fmt.Errorf("%s: span %v outside content of %d bytes", n.Kind, sp, size)
		}
	}
	return n.ForEachChild(func(i int, c *ast.Node) error {
		if c.Parent() != n {
			return fmt.Errorf("%s child %d (%s): parent link broken", n.Kind, i, c.Kind)
		}
		return checkNode(c, file, size)
	})
}

// CheckVerified reports the first node under root that is not Verified.
func CheckVerified(root *ast.Node) error {
	var bad *ast.Node
	ast.Inspect(root, func(n *ast.Node) bool {
		if bad != nil {
			return false
		}
		if n.State != ast.Verified {
			bad = n
			return false
		}
		return true
	})
	if bad != nil {
		return fmt.Errorf("%s at %v is %s", bad.Kind, bad.Span, bad.State)
	}
	return nil
}
