package ast

import (
	"math"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// State is the verification state of a node.
type State uint8

const (
	Unverified State = iota
	PreVerified
	Verified
)

func (s State) String() string {
	switch s {
	case PreVerified:
		return "pre-verified"
	case Verified:
		return "verified"
	}
	return "unverified"
}

// LoopUnboundedCount is the iteration count reported for a zero step.
const LoopUnboundedCount = math.MaxInt64

// LoopInfo is the loop-form analysis result stored on a ForStatement.
type LoopInfo struct {
	Index  symbols.SymbolID
	Count  int64
	Unroll bool
}

// Unbounded reports a loop whose step is zero.
func (l *LoopInfo) Unbounded() bool { return l != nil && l.Count == LoopUnboundedCount }

// Attr is the per-kind payload. Which fields are meaningful depends on Kind:
//
//	Op        Unary, Binary, Assignment operator; TypeSpecifier keyword; JumpStatement keyword
//	Name      identifiers, declarators, functions, fields, struct names
//	Value     Literal
//	Qual      FullType, ParameterDeclaration
//	Precision TypeSpecifier, PrecisionDeclaration
//	Symbol    resolved declaration of Identifier, Declarator, FunctionCall, prototypes
type Attr struct {
	Op        token.Kind
	Postfix   bool
	Name      source.StringID
	Value     types.Value
	Qual      symbols.Qualifier
	Precision types.Precision
	Invariant bool
	Symbol    symbols.SymbolID
	Loop      *LoopInfo
	HLSLName  string
	// Synthetic nodes are produced by tree rewrites, not by the parser.
	Synthetic bool
}

// Node is one grammar production. Collection kinds own an ordered list of
// optional child slots; the parent edge is a plain back-reference that is
// never followed for ownership.
type Node struct {
	Kind  Kind
	Span  source.Span
	State State
	// Moved is set when a verified node is attached to a new parent. The
	// verifier re-checks placement rules (break/continue) for such nodes.
	Moved bool
	Scope symbols.ScopeID
	Type  types.TypeID
	Const *types.Constant
	Attr  Attr

	parent   *Node
	children []*Node
	released bool
}

// New allocates a detached node with the given children attached in order.
// Nil children become empty slots.
func New(kind Kind, span source.Span, children ...*Node) *Node {
	n := &Node{Kind: kind, Span: span}
	if len(children) > 0 {
		n.children = make([]*Node, 0, len(children))
	}
	for _, c := range children {
		if c != nil {
			if c.parent != nil {
				panic("ast: New with an owned child")
			}
			c.parent = n
			if c.State == Verified {
				c.Moved = true
			}
		}
		n.children = append(n.children, c)
	}
	return n
}

// Parent returns the owning collection or nil for roots and detached nodes.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Released reports whether Destroy has torn the node down.
func (n *Node) Released() bool { return n != nil && n.released }

// Children returns the child slots. The slice is read-only.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}
