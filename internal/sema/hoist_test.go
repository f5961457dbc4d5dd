package sema

import (
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/testkit"
)

const hoistPrelude = fragHeader + `
uniform bool u_c;
uniform bool u_d;
float a() { return 1.0; }
float b() { return 2.0; }
`

func hoisted(t *testing.T, body string) (unit, *ast.Node, int) {
	t.Helper()
	u := mustCheck(t, target.Fragment, target.Level11_0, hoistPrelude+"void main() {\n"+body+"\n}\n")
	n, err := HoistShortCircuits(u.ctx)
	if err != nil {
		t.Fatalf("hoist: %v", err)
	}
	defs := find(u.root, ast.KindFunctionDefinition)
	return u, defs[len(defs)-1].Child(ast.FuncDefBody), n
}

func assertKinds(t *testing.T, n *ast.Node, want ...ast.Kind) {
	t.Helper()
	got := kinds(n)
	if len(got) != len(want) {
		t.Fatalf("children %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children %v, want %v", got, want)
		}
	}
}

// branchCall returns the call assigned inside a hoisted then/else block.
func branchCall(t *testing.T, u unit, blk *ast.Node, placeholder string) string {
	t.Helper()
	if blk.Kind != ast.KindCompoundStatement || blk.Len() != 1 || !blk.Scope.IsValid() {
		t.Fatalf("branch is not a scoped single-statement block")
	}
	asg := blk.Child(0).Child(ast.ExprStmtExpr)
	lhs, rhs := asg.Child(ast.AssignLHS), asg.Child(ast.AssignRHS)
	if u.ctx.name(lhs.Attr.Name) != placeholder || !lhs.Attr.Synthetic {
		t.Fatalf("branch assigns %q, want placeholder %q", u.ctx.name(lhs.Attr.Name), placeholder)
	}
	if !rhs.Moved || rhs.State != ast.Verified {
		t.Fatalf("moved arm must be verified and marked moved")
	}
	if rhs.Kind != ast.KindFunctionCall {
		return ""
	}
	return u.ctx.name(rhs.Attr.Name)
}

func TestHoistRewritesConditionalAssignment(t *testing.T) {
	u, body, n := hoisted(t, "float x; x = u_c ? a() : b(); gl_FragColor = vec4(x);")
	if n != 1 {
		t.Fatalf("rewritten = %d, want 1", n)
	}
	assertKinds(t, body, ast.KindDeclaratorList, ast.KindDeclaratorList, ast.KindSelectionStatement,
		ast.KindExpressionStatement, ast.KindExpressionStatement)
	decl := body.Child(1).Child(ast.DeclListFirst)
	if !decl.Attr.Synthetic || u.ctx.name(decl.Attr.Name) != "s0" || decl.Child(ast.DeclInitializer) != nil {
		t.Fatalf("placeholder declaration malformed")
	}
	if u.ctx.typeName(decl.Type) != "float" || decl.Moved {
		t.Fatalf("placeholder must be a fresh float declaration")
	}
	sel := body.Child(2)
	if test := sel.Child(ast.SelCond); test.Kind != ast.KindIdentifier || u.ctx.name(test.Attr.Name) != "u_c" {
		t.Fatalf("if condition is not the original test")
	}
	if got := branchCall(t, u, sel.Child(ast.SelThen), "s0"); got != "a" {
		t.Fatalf("then branch calls %q", got)
	}
	if got := branchCall(t, u, sel.Child(ast.SelElse), "s0"); got != "b" {
		t.Fatalf("else branch calls %q", got)
	}
	rhs := body.Child(3).Child(ast.ExprStmtExpr).Child(ast.AssignRHS)
	if rhs.Kind != ast.KindIdentifier || rhs.Attr.Symbol != decl.Attr.Symbol {
		t.Fatalf("original statement must read the placeholder")
	}
	if len(find(body, ast.KindConditional)) != 0 {
		t.Fatalf("conditional left in the tree")
	}
	if err := testkit.CheckVerified(body); err != nil {
		t.Fatalf("after hoisting: %v", err)
	}
	if err := testkit.CheckTree(u.root, u.file); err != nil {
		t.Fatalf("after hoisting: %v", err)
	}
}

func TestHoistNestedConditionalsOuterFirst(t *testing.T) {
	u, body, n := hoisted(t, "float x = 0.0; x = u_c ? (u_d ? a() : b()) : 0.0;")
	if n != 2 {
		t.Fatalf("rewritten = %d, want 2", n)
	}
	assertKinds(t, body, ast.KindDeclaratorList, ast.KindDeclaratorList, ast.KindSelectionStatement,
		ast.KindExpressionStatement)
	then := body.Child(2).Child(ast.SelThen)
	assertKinds(t, then, ast.KindDeclaratorList, ast.KindSelectionStatement, ast.KindExpressionStatement)
	inner := then.Child(1)
	if got := branchCall(t, u, inner.Child(ast.SelThen), "s1"); got != "a" {
		t.Fatalf("inner then calls %q", got)
	}
	if got := branchCall(t, u, inner.Child(ast.SelElse), "s1"); got != "b" {
		t.Fatalf("inner else calls %q", got)
	}
}

func TestHoistSplitsDeclaration(t *testing.T) {
	u, body, _ := hoisted(t, "float y = 1.0, x = u_c ? a() : b(), z = 2.0;")
	assertKinds(t, body, ast.KindDeclaratorList, ast.KindDeclaratorList, ast.KindSelectionStatement,
		ast.KindExpressionStatement, ast.KindDeclaratorList)
	head := body.Child(0)
	if head.Len() != ast.DeclListFirst+2 {
		t.Fatalf("first list keeps %d slots", head.Len())
	}
	x := head.Child(ast.DeclListFirst + 1)
	if u.ctx.name(x.Attr.Name) != "x" || x.Child(ast.DeclInitializer) != nil {
		t.Fatalf("x must lose its initializer")
	}
	asg := body.Child(3).Child(ast.ExprStmtExpr)
	if asg.Child(ast.AssignLHS).Attr.Symbol != x.Attr.Symbol {
		t.Fatalf("split assignment does not target x")
	}
	tail := body.Child(4)
	if tail.Len() != ast.DeclListFirst+1 || u.ctx.name(tail.Child(ast.DeclListFirst).Attr.Name) != "z" {
		t.Fatalf("z must move to a new declaration")
	}
	if ft := tail.Child(ast.DeclListType); ft == head.Child(ast.DeclListType) || ft.Type != head.Type {
		t.Fatalf("tail must carry a cloned full type")
	}
}

func TestHoistWrapsLoneBody(t *testing.T) {
	_, body, n := hoisted(t, "float x; if (u_c) x = u_d ? a() : b();")
	if n != 1 {
		t.Fatalf("rewritten = %d", n)
	}
	then := body.Child(1).Child(ast.SelThen)
	if then.Kind != ast.KindCompoundStatement || !then.Scope.IsValid() || !then.Attr.Synthetic {
		t.Fatalf("lone body was not wrapped in a block")
	}
	assertKinds(t, then, ast.KindDeclaratorList, ast.KindSelectionStatement, ast.KindExpressionStatement)
	if orig := then.Child(2); !orig.Moved {
		t.Fatalf("wrapped statement must be marked moved")
	}
}

func TestHoistSkipsConstantGlobalAndLoopHeaders(t *testing.T) {
	u := mustCheck(t, target.Fragment, target.Level11_0, hoistPrelude+`
uniform float u_f;
float g = u_c ? u_f : 0.0;
void main() {
    float k = true ? 1.0 : 2.0;
    while (u_c ? u_d : false) { discard; }
    gl_FragColor = vec4(k + g);
}
`)
	n, err := HoistShortCircuits(u.ctx)
	if err != nil || n != 0 {
		t.Fatalf("hoist = %d, %v; want nothing rewritten", n, err)
	}
	if got := len(find(u.root, ast.KindConditional)); got != 3 {
		t.Fatalf("%d conditionals left, want 3", got)
	}
}

func TestHoistDrainsOnce(t *testing.T) {
	u, _, _ := hoisted(t, "float x = u_c ? a() : b();")
	if _, err := HoistShortCircuits(u.ctx); !diag.IsInternal(err) {
		t.Fatalf("second drain must be an internal error, got %v", err)
	}
	if len(u.ctx.Worklist()) != 0 {
		t.Fatalf("worklist not emptied")
	}
}

func TestHoistDisabled(t *testing.T) {
	u := mustCheck(t, target.Fragment, target.Level11_0, hoistPrelude+"void main() { float x = u_c ? a() : b(); }")
	u.ctx.Flags |= target.OptNoShortCircuit
	if n, err := HoistShortCircuits(u.ctx); err != nil || n != 0 {
		t.Fatalf("hoist = %d, %v", n, err)
	}
	if len(find(u.root, ast.KindConditional)) != 1 {
		t.Fatalf("conditional must stay when hoisting is disabled")
	}
}
