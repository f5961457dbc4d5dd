package ast

// ForEachChild calls fn for every non-nil child in index order and stops at
// the first error.
func (n *Node) ForEachChild(fn func(i int, c *Node) error) error {
	if n == nil {
		return nil
	}
	for i, c := range n.children {
		if c == nil {
			continue
		}
		if err := fn(i, c); err != nil {
			return err
		}
	}
	return nil
}

// Inspect walks the subtree rooted at n in pre-order. Returning false from
// fn skips the node's children.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		Inspect(c, fn)
	}
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	for n != nil && n.parent != nil {
		n = n.parent
	}
	return n
}

// EnclosingFunction returns the FunctionDefinition containing n.
func (n *Node) EnclosingFunction() *Node {
	for p := n.Parent(); p != nil; p = p.parent {
		if p.Kind == KindFunctionDefinition {
			return p
		}
	}
	return nil
}

// InsideLoop reports whether n sits in the body of an iteration statement
// of its own function.
func (n *Node) InsideLoop() bool {
	for c, p := n, n.Parent(); p != nil; c, p = p, p.parent {
		switch p.Kind {
		case KindFunctionDefinition:
			return false
		case KindForStatement:
			if p.Child(ForBody) == c {
				return true
			}
		case KindWhileStatement:
			if p.Child(WhileBody) == c {
				return true
			}
		case KindDoStatement:
			if p.Child(DoBody) == c {
				return true
			}
		}
	}
	return false
}

// EnclosingStatement returns the nearest statement that is n or contains it.
func (n *Node) EnclosingStatement() *Node {
	for c := n; c != nil; c = c.parent {
		if c.Kind.IsStatement() {
			return c
		}
	}
	return nil
}

// IsAncestorOf reports whether n strictly contains m.
func (n *Node) IsAncestorOf(m *Node) bool {
	for p := m.Parent(); p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
