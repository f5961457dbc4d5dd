package ast

import "github.com/MicrosoftEdge/WebGL-sub003/internal/diag"

// cloneHook builds the copy of src around already-cloned children.
type cloneHook func(src *Node, children []*Node) (*Node, error)

var cloneHooks [kindCount]cloneHook

func init() {
	for k := range cloneHooks {
		cloneHooks[k] = cloneGeneric
	}
	cloneHooks[KindForStatement] = cloneLoop
	cloneHooks[KindInvalid] = func(*Node, []*Node) (*Node, error) {
		return nil, diag.Internalf("clone", "invalid node")
	}
}

// Clone deep-copies n. Every child is cloned into a transient slice first;
// the per-kind hook attaches them only after all of them succeeded, and a
// failure releases whatever was cloned so far.
func (n *Node) Clone() (*Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.released {
		return nil, diag.Internalf("clone", "%s node already released", n.Kind)
	}
	var kids []*Node
	if len(n.children) > 0 {
		kids = make([]*Node, len(n.children))
	}
	release := func() {
		for _, k := range kids {
			k.Destroy()
		}
	}
	for i, c := range n.children {
		if c == nil {
			continue
		}
		cc, err := c.Clone()
		if err != nil {
			release()
			return nil, err
		}
		kids[i] = cc
	}
	k := n.Kind
	if k >= kindCount {
		k = KindInvalid
	}
	out, err := cloneHooks[k](n, kids)
	if err != nil {
		release()
		return nil, err
	}
	return out, nil
}

func cloneGeneric(src *Node, children []*Node) (*Node, error) {
	if fixed := src.Kind.info().fixed; fixed >= 0 && src.Kind.IsCollection() && len(children) != fixed {
		return nil, diag.Internalf("clone", "%s expects %d slots, got %d", src.Kind, fixed, len(children))
	}
	dst := &Node{
		Kind:  src.Kind,
		Span:  src.Span,
		State: src.State,
		Scope: src.Scope,
		Type:  src.Type,
		Const: src.Const.Clone(),
		Attr:  src.Attr,
	}
	dst.Attr.Loop = nil
	dst.children = children
	for _, c := range children {
		dst.adopt(c)
	}
	return dst, nil
}

func cloneLoop(src *Node, children []*Node) (*Node, error) {
	dst, err := cloneGeneric(src, children)
	if err != nil {
		return nil, err
	}
	if src.Attr.Loop != nil {
		loop := *src.Attr.Loop
		dst.Attr.Loop = &loop
	}
	return dst, nil
}
