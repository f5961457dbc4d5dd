package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("shader.frag", []byte("void main()\n{\n}\n"))
	f := fs.Get(id)
	if len(f.LineIdx) != 3 {
		t.Fatalf("expected 3 line breaks, got %d", len(f.LineIdx))
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag not set")
	}
	if got := f.GetLine(2); got != "{" {
		t.Fatalf("GetLine(2) = %q", got)
	}
}

func TestResolvePositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.vert", []byte("ab\ncd\n"))
	cases := []struct {
		off       uint32
		line, col uint32
	}{
		{0, 1, 1},
		{2, 1, 3}, // the newline itself belongs to line 1
		{3, 2, 1},
		{4, 2, 2},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tc.off, start.Line, start.Col, tc.line, tc.col)
		}
	}
}

func TestNormalizeCRLFAndBOM(t *testing.T) {
	content, flags := Normalize([]byte("\xEF\xBB\xBFa\r\nb\r\n"))
	if string(content) != "a\nb\n" {
		t.Fatalf("unexpected content %q", content)
	}
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags not recorded: %b", flags)
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "e" followed by a combining acute accent composes into U+00E9.
	content, flags := Normalize([]byte("// cafe\u0301\n"))
	if string(content) != "// caf\u00e9\n" {
		t.Fatalf("expected NFC form, got %q", content)
	}
	if flags&FileNormalizedNFC == 0 {
		t.Fatalf("NFC flag not set")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.frag")
	if err := os.WriteFile(path, []byte("void main(){}\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "void main(){}\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if got := f.FormatPath("relative", dir); got != "x.frag" {
		t.Fatalf("relative path = %q", got)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("gl_Position")
	b := in.Intern("gl_Position")
	if a != b || a == NoStringID {
		t.Fatalf("interning is not stable: %d vs %d", a, b)
	}
	if s := in.MustLookup(a); s != "gl_Position" {
		t.Fatalf("lookup = %q", s)
	}
	if _, ok := in.Find("missing"); ok {
		t.Fatalf("Find must not intern")
	}
	if in.Len() != 2 {
		t.Fatalf("Len = %d", in.Len())
	}
}

func TestLineMap(t *testing.T) {
	var m LineMap
	m.Add(3, 100, 2)
	m.Add(10, 5, 0)
	cases := []struct{ phys, src, line uint32 }{
		{1, 0, 1},
		{3, 2, 100},
		{4, 2, 101},
		{10, 0, 5},
		{12, 0, 7},
	}
	for _, tc := range cases {
		src, line := m.Map(tc.phys)
		if src != tc.src || line != tc.line {
			t.Errorf("Map(%d) = (%d,%d), want (%d,%d)", tc.phys, src, line, tc.src, tc.line)
		}
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cross-file cover must keep the receiver")
	}
}
