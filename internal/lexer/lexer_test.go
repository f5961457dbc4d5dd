package lexer_test

import (
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/lexer"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.frag", []byte(input))
	bag := diag.NewBag(16)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	toks := lx.All()
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %+v", input, bag.Items())
	}
	return toks
}

func TestDeclaration(t *testing.T) {
	toks := expectKinds(t, "uniform highp mat4 u_mvp;",
		token.KwUniform, token.KwHighp, token.KwMat4, token.Ident, token.Semicolon)
	if toks[3].Text != "u_mvp" {
		t.Fatalf("unexpected identifier text %q", toks[3].Text)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"42", token.IntLit},
		{"0777", token.IntLit},
		{"0x1Fa", token.IntLit},
		{"1.0", token.FloatLit},
		{".5", token.FloatLit},
		{"3.", token.FloatLit},
		{"1e10", token.FloatLit},
		{"2.5E-3", token.FloatLit},
	}
	for _, tc := range cases {
		toks := expectKinds(t, tc.in, tc.kind)
		if toks[0].Text != tc.in {
			t.Fatalf("text %q, want %q", toks[0].Text, tc.in)
		}
	}
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"1.0f", "10u", "0x", "1e", "09", "0x1g"} {
		lx, bag := makeTestLexer(in)
		toks := lx.All()
		if toks[0].Kind != token.Invalid {
			t.Fatalf("%q: expected Invalid token, got %v", in, toks[0].Kind)
		}
		if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: expected one LexBadNumber, got %+v", in, bag.Items())
		}
	}
}

func TestOperatorsGreedy(t *testing.T) {
	expectKinds(t, "a<<=b>>=c++--d^^e&&f||g",
		token.Ident, token.ShlAssign, token.Ident, token.ShrAssign, token.Ident,
		token.PlusPlus, token.MinusMinus, token.Ident, token.XorXor, token.Ident,
		token.AndAnd, token.Ident, token.OrOr, token.Ident)
	expectKinds(t, "x ? y : z.w[1]",
		token.Ident, token.Question, token.Ident, token.Colon, token.Ident,
		token.Dot, token.Ident, token.LBracket, token.IntLit, token.RBracket)
}

func TestLineStartFlags(t *testing.T) {
	toks := expectKinds(t, "#define A 1\n  #if A\nfoo /* x\n */ bar",
		token.Hash, token.Ident, token.Ident, token.IntLit,
		token.Hash, token.KwIf, token.Ident,
		token.Ident, token.Ident)
	lineStart := []bool{true, false, false, false, true, false, false, true, true}
	for i, want := range lineStart {
		if got := toks[i].AtLineStart(); got != want {
			t.Fatalf("token %d (%q): AtLineStart=%v, want %v", i, toks[i].Text, got, want)
		}
	}
	if toks[2].Flags&token.FlagSpaceBefore == 0 {
		t.Fatalf("expected space before %q", toks[2].Text)
	}
}

func TestCommentsAreTrivia(t *testing.T) {
	toks := expectKinds(t, "// header\nvoid /* inline */ main", token.KwVoid, token.Ident)
	if len(toks[0].Leading) != 2 || toks[0].Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("unexpected leading trivia: %+v", toks[0].Leading)
	}
	if toks[1].Leading[1].Kind != token.TriviaBlockComment {
		t.Fatalf("expected block comment trivia before main, got %+v", toks[1].Leading)
	}
}

func TestUnterminatedComment(t *testing.T) {
	lx, bag := makeTestLexer("a /* never closed")
	lx.All()
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedComment {
		t.Fatalf("expected LexUnterminatedComment, got %+v", bag.Items())
	}
}

func TestUnknownAndNonASCII(t *testing.T) {
	lx, bag := makeTestLexer("a @ b\nfloat é;")
	toks := lx.All()
	if toks[1].Kind != token.Invalid || toks[4].Kind != token.Invalid {
		t.Fatalf("expected invalid tokens, got %v", kinds(toks))
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.LexUnknownChar {
			t.Fatalf("unexpected code %v", d.Code)
		}
	}
	if lx.Errors() != 2 {
		t.Fatalf("Errors() = %d", lx.Errors())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must be sticky")
	}
}
