package ast

import "github.com/MicrosoftEdge/WebGL-sub003/internal/diag"

// Len returns the number of child slots.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns slot i or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) checkOwner(op string, child *Node) error {
	if n.released {
		return diag.Internalf(op, "%s node already released", n.Kind)
	}
	if !n.Kind.IsCollection() {
		return diag.Internalf(op, "%s is not a collection", n.Kind)
	}
	if child == nil {
		return nil
	}
	if child.released {
		return diag.Internalf(op, "child %s already released", child.Kind)
	}
	if child.parent != nil {
		return diag.Internalf(op, "child %s already owned by %s", child.Kind, child.parent.Kind)
	}
	if child == n {
		return diag.Internalf(op, "node attached to itself")
	}
	return nil
}

func (n *Node) adopt(child *Node) {
	if child == nil {
		return
	}
	child.parent = n
	if child.State == Verified {
		child.Moved = true
	}
}

// Attach inserts child (possibly nil) at index in [0, Len] and makes n its
// parent. A child that was already verified is marked moved-after-verify.
func (n *Node) Attach(index int, child *Node) error {
	if err := n.checkOwner("attach", child); err != nil {
		return err
	}
	if index < 0 || index > len(n.children) {
		return diag.Internalf("attach", "index %d out of range [0, %d] on %s", index, len(n.children), n.Kind)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.adopt(child)
	return nil
}

// Append attaches child after the last slot.
func (n *Node) Append(child *Node) error {
	return n.Attach(n.Len(), child)
}

// Extract removes slot index and hands ownership of its node to the caller.
func (n *Node) Extract(index int) (*Node, error) {
	if n == nil || n.released {
		return nil, diag.Internalf("extract", "extract from released node")
	}
	if index < 0 || index >= len(n.children) {
		return nil, diag.Internalf("extract", "index %d out of range [0, %d) on %s", index, len(n.children), n.Kind)
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	if child != nil {
		child.parent = nil
	}
	return child, nil
}

// IndexOf finds child among the slots. The boolean is false when child is
// not owned by n.
func (n *Node) IndexOf(child *Node) (int, bool) {
	if n == nil || child == nil {
		return 0, false
	}
	for i, c := range n.children {
		if c == child {
			return i, true
		}
	}
	return 0, false
}

// Replace swaps slot index for child and returns the previous occupant,
// now detached.
func (n *Node) Replace(index int, child *Node) (*Node, error) {
	if err := n.checkOwner("replace", child); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(n.children) {
		return nil, diag.Internalf("replace", "index %d out of range [0, %d) on %s", index, len(n.children), n.Kind)
	}
	old := n.children[index]
	if old != nil {
		old.parent = nil
	}
	n.children[index] = child
	n.adopt(child)
	return old, nil
}

// SetChild replaces slot index and destroys the previous occupant.
func (n *Node) SetChild(index int, child *Node) error {
	old, err := n.Replace(index, child)
	if err != nil {
		return err
	}
	old.Destroy()
	return nil
}

// ReplaceWith puts repl in n's slot of its parent and returns n detached.
func (n *Node) ReplaceWith(repl *Node) error {
	p := n.Parent()
	if p == nil {
		return diag.Internalf("replace", "%s has no parent", n.Kind)
	}
	idx, ok := p.IndexOf(n)
	if !ok {
		return diag.Internalf("replace", "%s not found in its parent %s", n.Kind, p.Kind)
	}
	_, err := p.Replace(idx, repl)
	return err
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() error {
	p := n.Parent()
	if p == nil {
		return nil
	}
	idx, ok := p.IndexOf(n)
	if !ok {
		return diag.Internalf("detach", "%s not found in its parent %s", n.Kind, p.Kind)
	}
	_, err := p.Extract(idx)
	return err
}
