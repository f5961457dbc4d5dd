package testkit

import (
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

func file(t *testing.T, text string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("t.glsl", []byte(text)))
}

func TestCheckTree(t *testing.T) {
	sf := file(t, "x = 1;")
	leaf := ast.New(ast.KindIdentifier, source.Span{File: sf.ID, Start: 0, End: 1})
	root := ast.New(ast.KindTranslationUnit, source.Span{File: sf.ID, Start: 0, End: 6}, leaf)
	if err := CheckTree(root, sf); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}
	if err := CheckTree(leaf, sf); err == nil || !strings.Contains(err.Error(), "has a parent") {
		t.Fatalf("inner node accepted as root: %v", err)
	}

	far := ast.New(ast.KindIdentifier, source.Span{File: sf.ID, Start: 4, End: 40})
	root = ast.New(ast.KindTranslationUnit, source.Span{File: sf.ID, Start: 0, End: 6}, far)
	if err := CheckTree(root, sf); err == nil || !strings.Contains(err.Error(), "outside content") {
		t.Fatalf("out of bounds span accepted: %v", err)
	}
}

func TestCheckVerified(t *testing.T) {
	leaf := ast.New(ast.KindIdentifier, source.Span{})
	root := ast.New(ast.KindTranslationUnit, source.Span{}, leaf)
	root.State = ast.Verified
	if err := CheckVerified(root); err == nil || !strings.Contains(err.Error(), "unverified") {
		t.Fatalf("unverified leaf accepted: %v", err)
	}
	leaf.State = ast.Verified
	if err := CheckVerified(root); err != nil {
		t.Fatalf("verified tree rejected: %v", err)
	}
}
