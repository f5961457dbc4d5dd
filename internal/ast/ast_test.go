package ast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

func ident(strs *source.Interner, name string) *Node {
	n := New(KindIdentifier, source.Span{})
	n.Attr.Name = strs.Intern(name)
	return n
}

func intLit(v int32) *Node {
	n := New(KindLiteral, source.Span{})
	n.Attr.Value = types.IntValue(v)
	return n
}

func binary(op token.Kind, l, r *Node) *Node {
	n := New(KindBinary, source.Span{}, l, r)
	n.Attr.Op = op
	return n
}

func checkParents(t *testing.T, root *Node) {
	t.Helper()
	Inspect(root, func(n *Node) bool {
		for _, c := range n.Children() {
			if c != nil && c.Parent() != n {
				t.Fatalf("%s child %s has wrong parent", n.Kind, c.Kind)
			}
		}
		return true
	})
}

func TestExtractAttachRoundTrip(t *testing.T) {
	strs := source.NewInterner()
	list := New(KindCompoundStatement, source.Span{},
		New(KindExpressionStatement, source.Span{}, ident(strs, "a")),
		nil,
		New(KindExpressionStatement, source.Span{}, ident(strs, "b")),
	)
	for i := 0; i < list.Len(); i++ {
		before := append([]*Node(nil), list.Children()...)
		c, err := list.Extract(i)
		if err != nil {
			t.Fatalf("extract %d: %v", i, err)
		}
		if c != nil && c.Parent() != nil {
			t.Fatalf("extracted child still has a parent")
		}
		if err := list.Attach(i, c); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
		for j, got := range list.Children() {
			if got != before[j] {
				t.Fatalf("slot %d changed after round trip at %d", j, i)
			}
		}
		checkParents(t, list)
	}
}

func TestAttachExtractErrors(t *testing.T) {
	list := New(KindCompoundStatement, source.Span{})
	if err := list.Attach(1, nil); !diag.IsInternal(err) {
		t.Fatalf("attach past end must be internal, got %v", err)
	}
	if _, err := list.Extract(0); !diag.IsInternal(err) {
		t.Fatalf("extract from empty list must be internal, got %v", err)
	}
	child := intLit(1)
	if err := list.Append(child); err != nil {
		t.Fatalf("append: %v", err)
	}
	other := New(KindCompoundStatement, source.Span{})
	if err := other.Append(child); !diag.IsInternal(err) {
		t.Fatalf("second owner must be rejected, got %v", err)
	}
	if err := child.Append(intLit(2)); !diag.IsInternal(err) {
		t.Fatalf("leaf must not accept children, got %v", err)
	}
	if _, ok := other.IndexOf(child); ok {
		t.Fatalf("IndexOf must report not-found for foreign child")
	}
	if i, ok := list.IndexOf(child); !ok || i != 0 {
		t.Fatalf("IndexOf = %d,%v", i, ok)
	}
}

func TestAttachMarksMovedAfterVerify(t *testing.T) {
	n := intLit(3)
	n.State = Verified
	list := New(KindExpressionList, source.Span{})
	if err := list.Append(n); err != nil {
		t.Fatalf("append: %v", err)
	}
	if !n.Moved {
		t.Fatalf("verified child must be marked moved")
	}
	fresh := intLit(4)
	_ = list.Append(fresh)
	if fresh.Moved {
		t.Fatalf("unverified child must not be marked moved")
	}
}

func TestCloneIsDisjoint(t *testing.T) {
	strs := source.NewInterner()
	orig := New(KindExpressionStatement, source.Span{},
		binary(token.Plus, ident(strs, "x"), intLit(7)))
	orig.Child(0).Const = &types.Constant{Values: []types.Value{types.IntValue(9)}}

	cl, err := orig.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	checkParents(t, cl)
	if cl.Parent() != nil {
		t.Fatalf("clone root must be detached")
	}
	var a, b bytes.Buffer
	_ = Dump(&a, orig, DumpConfig{Strings: strs})
	_ = Dump(&b, cl, DumpConfig{Strings: strs})
	if a.String() != b.String() {
		t.Fatalf("clone differs:\n%s\nvs\n%s", a.String(), b.String())
	}

	cl.Child(0).Attr.Op = token.Minus
	cl.Child(0).Child(1).Attr.Value = types.IntValue(100)
	cl.Child(0).Const.Values[0] = types.IntValue(0)
	if orig.Child(0).Attr.Op != token.Plus || orig.Child(0).Child(1).Attr.Value.I != 7 {
		t.Fatalf("mutating the clone changed the original")
	}
	if orig.Child(0).Const.Values[0].I != 9 {
		t.Fatalf("clone shares constant storage")
	}
	Inspect(cl, func(n *Node) bool {
		Inspect(orig, func(m *Node) bool {
			if n == m {
				t.Fatalf("clone aliases node %s", n.Kind)
			}
			return true
		})
		return true
	})
}

func TestCloneCopiesLoopInfo(t *testing.T) {
	loop := New(KindForStatement, source.Span{}, nil, nil, nil, New(KindCompoundStatement, source.Span{}))
	loop.Attr.Loop = &LoopInfo{Count: 5}
	cl, err := loop.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	cl.Attr.Loop.Count = 1
	if loop.Attr.Loop.Count != 5 {
		t.Fatalf("loop info shared between clone and original")
	}
}

func TestCloneFailureLeavesNoTree(t *testing.T) {
	good := intLit(1)
	bad := New(KindInvalid, source.Span{})
	list := New(KindExpressionList, source.Span{}, good, bad)
	cl, err := list.Clone()
	if err == nil || cl != nil {
		t.Fatalf("clone of invalid node must fail")
	}
	if !diag.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if good.Parent() != list || good.Released() {
		t.Fatalf("original must be untouched by failed clone")
	}
}

func TestDestroyCountsAndDetaches(t *testing.T) {
	strs := source.NewInterner()
	expr := binary(token.Star, ident(strs, "a"), binary(token.Plus, intLit(1), intLit(2)))
	stmt := New(KindExpressionStatement, source.Span{}, expr)
	list := New(KindCompoundStatement, source.Span{}, stmt, nil)
	if got := expr.Destroy(); got != 5 {
		t.Fatalf("Destroy released %d nodes, want 5", got)
	}
	if stmt.Child(0) != nil || stmt.Len() != 0 {
		t.Fatalf("destroyed node must be detached from its parent")
	}
	if !expr.Released() || expr.Destroy() != 0 {
		t.Fatalf("second destroy must be a no-op")
	}
	if got := list.Destroy(); got != 2 {
		t.Fatalf("Destroy released %d nodes, want 2", got)
	}
}

func TestDestroyWithStaleParentLink(t *testing.T) {
	stmt := New(KindExpressionStatement, source.Span{}, intLit(1))
	stray := binary(token.Plus, intLit(2), intLit(3))
	stray.parent = stmt
	if got := stray.Destroy(); got != 3 {
		t.Fatalf("Destroy released %d nodes, want 3", got)
	}
	if stray.Parent() != nil || stmt.Len() != 1 || stmt.Child(0).Released() {
		t.Fatalf("parent must keep its own children")
	}
}

func TestDestroyDeepTree(t *testing.T) {
	const depth = 200000
	root := New(KindExpressionStatement, source.Span{}, nil)
	cur := intLit(0)
	for i := 0; i < depth; i++ {
		u := New(KindUnary, source.Span{}, cur)
		u.Attr.Op = token.Minus
		cur = u
	}
	if _, err := root.Replace(0, cur); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := root.Destroy(); got != depth+2 {
		t.Fatalf("released %d, want %d", got, depth+2)
	}
}

func TestContextQueries(t *testing.T) {
	strs := source.NewInterner()
	brk := New(KindJumpStatement, source.Span{}, nil)
	brk.Attr.Op = token.KwBreak
	cond := ident(strs, "c")
	body := New(KindCompoundStatement, source.Span{}, brk)
	loop := New(KindWhileStatement, source.Span{}, cond, body)
	fn := New(KindFunctionDefinition, source.Span{},
		New(KindFunctionPrototype, source.Span{}, nil),
		New(KindCompoundStatement, source.Span{}, loop))
	New(KindTranslationUnit, source.Span{}, fn)

	if brk.EnclosingFunction() != fn {
		t.Fatalf("EnclosingFunction mismatch")
	}
	if !brk.InsideLoop() {
		t.Fatalf("break in loop body must be inside loop")
	}
	if cond.InsideLoop() {
		t.Fatalf("loop condition is not inside the loop body")
	}
	if cond.EnclosingStatement() != loop {
		t.Fatalf("EnclosingStatement of condition must be the loop")
	}
	if !fn.IsAncestorOf(brk) || brk.IsAncestorOf(fn) {
		t.Fatalf("IsAncestorOf mismatch")
	}
}

func TestForEachChildFailFast(t *testing.T) {
	list := New(KindExpressionList, source.Span{}, intLit(1), nil, intLit(2), intLit(3))
	var seen []int
	stop := diag.Internalf("test", "stop")
	err := list.ForEachChild(func(i int, _ *Node) error {
		seen = append(seen, i)
		if i == 2 {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Fatalf("expected the first error to be returned, got %v", err)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 2 {
		t.Fatalf("visited %v, want [0 2]", seen)
	}
}

func TestDumpFormat(t *testing.T) {
	strs := source.NewInterner()
	var buf bytes.Buffer
	if err := Dump(&buf, binary(token.Plus, ident(strs, "x"), intLit(1)), DumpConfig{Strings: strs}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "Binary +\n  Identifier \"x\"\n  Literal 1\n"
	if got := buf.String(); got != want {
		t.Fatalf("dump:\n%s\nwant:\n%s", got, want)
	}
	if !strings.Contains(KindForStatement.String(), "For") {
		t.Fatalf("kind names missing")
	}
}
