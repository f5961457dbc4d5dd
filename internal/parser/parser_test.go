package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
)

func parse(t *testing.T, src string) (*ast.Node, *source.Interner, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.frag", []byte(src))
	bag := diag.NewBag(8)
	rep := &diag.BagReporter{Bag: bag}
	res, err := pp.Preprocess(fs.Get(id), pp.Options{Stage: target.Fragment, Level: target.Level11_0, Reporter: rep})
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	strs := source.NewInterner()
	root, err := Parse(res.Tokens, Options{Reporter: rep, Strings: strs})
	return root, strs, bag, err
}

func mustParse(t *testing.T, src string) (*ast.Node, *source.Interner) {
	t.Helper()
	root, strs, bag, err := parse(t, src)
	if err != nil {
		t.Fatalf("parse failed: %v %v", err, bag.Items())
	}
	return root, strs
}

func dump(t *testing.T, n *ast.Node, strs *source.Interner) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ast.Dump(&buf, n, ast.DumpConfig{Strings: strs}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return buf.String()
}

func TestParseFunctionAndDeclarations(t *testing.T) {
	root, strs := mustParse(t, `
precision mediump float;
uniform vec4 u_color;
varying vec2 v_uv[2];
struct Light { vec3 dir; float power; } sun;
float scale(const in float x, out float y) { y = x; return x * 2.0; }
void main() {
    float a = 1.0, b;
    gl_FragColor = u_color * scale(a, b);
}
`)
	if root.Kind != ast.KindTranslationUnit || root.Len() != 6 {
		t.Fatalf("unexpected unit: %s with %d decls", root.Kind, root.Len())
	}
	if k := root.Child(0).Kind; k != ast.KindPrecisionDeclaration {
		t.Fatalf("decl 0 = %s", k)
	}
	fn := root.Child(4)
	if fn.Kind != ast.KindFunctionDefinition {
		t.Fatalf("decl 4 = %s", fn.Kind)
	}
	proto := fn.Child(ast.FuncDefPrototype)
	if proto.Len() != 3 {
		t.Fatalf("scale prototype has %d slots, want return + 2 params", proto.Len())
	}
	out := dump(t, root, strs)
	for _, want := range []string{
		`ParameterDeclaration "x" const in`,
		`ParameterDeclaration "y" out`,
		`StructSpecifier "Light"`,
		`Declarator "sun"`,
		`Declarator "v_uv"`,
		`FunctionCall "scale"`,
		`Binary *`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	root, strs := mustParse(t, "void main() { x = a + b * c > d || e && !f ? g : h, i++; }")
	stmt := root.Child(0).Child(ast.FuncDefBody).Child(0)
	list := stmt.Child(ast.ExprStmtExpr)
	if list.Kind != ast.KindExpressionList || list.Len() != 2 {
		t.Fatalf("expected comma list, got %s", list.Kind)
	}
	assign := list.Child(0)
	cond := assign.Child(ast.AssignRHS)
	if cond.Kind != ast.KindConditional {
		t.Fatalf("rhs = %s", cond.Kind)
	}
	or := cond.Child(ast.CondTest)
	want := "Binary ||\n" +
		"  Binary >\n" +
		"    Binary +\n" +
		"      Identifier \"a\"\n" +
		"      Binary *\n" +
		"        Identifier \"b\"\n" +
		"        Identifier \"c\"\n" +
		"    Identifier \"d\"\n" +
		"  Binary &&\n" +
		"    Identifier \"e\"\n" +
		"    Unary !\n" +
		"      Identifier \"f\"\n"
	if got := dump(t, or, strs); got != want {
		t.Fatalf("precedence:\n%s\nwant:\n%s", got, want)
	}
	if post := list.Child(1); post.Kind != ast.KindUnary || !post.Attr.Postfix {
		t.Fatalf("i++ must be a postfix unary")
	}
}

func TestParseStatements(t *testing.T) {
	root, strs := mustParse(t, `
void main() {
    for (int i = 0; i < 4; ++i) { if (i == 2) continue; else break; }
    while (true) { discard; }
    do ; while (false);
    vec4 c = vec4(1.0, 0.5, 0x10, 010);
    c.xy = c.yx;
    c[1] = 0.0;
}
`)
	body := root.Child(0).Child(ast.FuncDefBody)
	kinds := []ast.Kind{ast.KindForStatement, ast.KindWhileStatement, ast.KindDoStatement,
		ast.KindDeclaratorList, ast.KindExpressionStatement, ast.KindExpressionStatement}
	if body.Len() != len(kinds) {
		t.Fatalf("body has %d statements", body.Len())
	}
	for i, k := range kinds {
		if got := body.Child(i).Kind; got != k {
			t.Fatalf("stmt %d = %s, want %s", i, got, k)
		}
	}
	loop := body.Child(0)
	if loop.Child(ast.ForInit).Kind != ast.KindDeclaratorList || loop.Child(ast.ForCond) == nil || loop.Child(ast.ForIter) == nil {
		t.Fatalf("for header slots not filled")
	}
	out := dump(t, body, strs)
	for _, want := range []string{"Literal 16", "Literal 8", "JumpStatement continue", "JumpStatement discard", `FieldSelection "xy"`, "Index"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestParseEmptyForSlots(t *testing.T) {
	root, _ := mustParse(t, "void main() { for (;;) {} }")
	loop := root.Child(0).Child(ast.FuncDefBody).Child(0)
	if loop.Len() != 4 || loop.Child(ast.ForCond) != nil || loop.Child(ast.ForIter) != nil {
		t.Fatalf("absent for slots must stay nil")
	}
	if init := loop.Child(ast.ForInit); init.Kind != ast.KindExpressionStatement || init.Child(0) != nil {
		t.Fatalf("empty init must be an empty expression statement")
	}
}

func TestParseErrorsAreFailFast(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"void main() { x = 1 }", diag.SynExpectSemicolon},
		{"void main() { x = (1 + 2; }", diag.SynUnclosedParen},
		{"void main() { x = ; }", diag.SynExpectExpression},
		{"void main() { float f = 1.0;", diag.SynUnclosedBrace},
		{"void main() { int class = 1; }", diag.SynReservedWord},
		{"void main() { a[1 = 2; }", diag.SynUnclosedBracket},
		{"void main() { int x = 4294967296; }", diag.LexBadNumber},
	}
	for _, tc := range cases {
		root, _, bag, err := parse(t, tc.src)
		if err != diag.ErrReported || root != nil {
			t.Fatalf("%q: expected ErrReported, got %v", tc.src, err)
		}
		if bag.Len() != 1 {
			t.Fatalf("%q: expected exactly one diagnostic, got %d", tc.src, bag.Len())
		}
		if got := bag.Items()[0].Code; got != tc.code {
			t.Fatalf("%q: code %s, want %s", tc.src, got.ID(), tc.code.ID())
		}
	}
}

func TestParentPointers(t *testing.T) {
	root, _ := mustParse(t, "void main() { float x = 1.0 > 0.0 ? 2.0 : 3.0; }")
	ast.Inspect(root, func(n *ast.Node) bool {
		for _, c := range n.Children() {
			if c != nil && c.Parent() != n {
				t.Fatalf("%s has a child with a foreign parent", n.Kind)
			}
		}
		return true
	})
}
