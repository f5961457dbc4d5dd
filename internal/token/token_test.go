package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"attribute":   KwAttribute,
		"varying":     KwVarying,
		"sampler2D":   KwSampler2D,
		"samplerCube": KwSamplerCube,
		"mat4":        KwMat4,
		"discard":     KwDiscard,
		"switch":      KwReserved,
		"double":      KwReserved,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v want %v", lexeme, got, ok, want)
		}
	}
	for _, ident := range []string{"Vec4", "texture2D", "gl_Position", "main"} {
		if _, ok := LookupKeyword(ident); ok {
			t.Fatalf("%q must not be a keyword", ident)
		}
	}
}

func TestKindClasses(t *testing.T) {
	for k := KwVoid; k <= KwSamplerCube; k++ {
		if !k.IsTypeKeyword() {
			t.Fatalf("%v should be a type keyword", k)
		}
		if !(Token{Kind: k}).IsKeyword() {
			t.Fatalf("%v should be a keyword", k)
		}
	}
	if KwStruct.IsTypeKeyword() || Ident.IsTypeKeyword() {
		t.Fatalf("struct and identifiers are not built-in type keywords")
	}
	for _, k := range []Kind{Assign, PlusAssign, ShrAssign} {
		if !k.IsAssignOp() {
			t.Fatalf("%v should be an assignment operator", k)
		}
	}
	if EqEq.IsAssignOp() {
		t.Fatalf("== is not an assignment")
	}
	if !(Token{Kind: Hash}).IsPunctOrOp() || (Token{Kind: KwIf}).IsPunctOrOp() {
		t.Fatalf("unexpected punct classification")
	}
	if !(Token{Kind: KwTrue}).IsLiteral() || (Token{Kind: Ident}).IsLiteral() {
		t.Fatalf("unexpected literal classification")
	}
}

func TestKindString(t *testing.T) {
	if KwVec3.String() != "vec3" || ShlAssign.String() != "<<=" || EOF.String() != "EOF" {
		t.Fatalf("unexpected kind names")
	}
}
