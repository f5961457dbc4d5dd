package ast

// Destroy tears n down together with every descendant and returns the
// number of nodes released. The walk keeps its own stack of
// (node, next child) frames, so depth is bounded only by the heap. A frame
// whose children are exhausted releases them and pops to its parent frame.
func (n *Node) Destroy() int {
	if n == nil || n.released {
		return 0
	}
	if n.parent != nil {
		// Detach fails only if the parent does not list n; the parent link
		// is cut below either way.
		if err := n.Detach(); err != nil {
			n.parent = nil
		}
	}
	type frame struct {
		node *Node
		next int
	}
	stack := []frame{{node: n}}
	released := 0
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.children) {
			c := top.node.children[top.next]
			top.next++
			if c != nil && !c.released {
				stack = append(stack, frame{node: c})
			}
			continue
		}
		node := top.node
		for i, c := range node.children {
			if c != nil {
				c.parent = nil
			}
			node.children[i] = nil
		}
		node.children = nil
		node.Const = nil
		node.Attr.Loop = nil
		node.released = true
		released++
		stack = stack[:len(stack)-1]
	}
	return released
}
