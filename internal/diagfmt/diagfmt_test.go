package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

func sample(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	src := "void main() {\n    float x = true;\n}\n"
	id := fs.AddVirtual("/work/shaders/a.frag", []byte(src))
	fs.SetBaseDir("/work")
	bag := diag.NewBag(4)
	start := uint32(strings.Index(src, "true"))
	d := diag.NewError(diag.SemaTypeMismatch, source.Span{File: id, Start: start, End: start + 4}, "cannot initialize 'x'")
	d = d.WithNote(source.Span{File: id, Start: 5, End: 9}, "inside main")
	bag.Add(d)
	return bag, fs, id
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	bag, fs, _ := sample(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"shaders/a.frag:2:15: ERROR " + diag.SemaTypeMismatch.ID() + ": cannot initialize 'x'",
		" 2 |     float x = true;",
		"   |               ^~~~",
		"note: inside main",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color leaked with Color=false:\n%q", out)
	}
}

func TestPrettyUsesLogicalLines(t *testing.T) {
	bag, fs, id := sample(t)
	var lm source.LineMap
	lm.Add(2, 40, 0)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Lines: LineMaps{id: &lm}}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "a.frag:40:15:") {
		t.Fatalf("header = %q", buf.String())
	}
}

func TestJSONPositions(t *testing.T) {
	bag, fs, _ := sample(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Location.File != "a.frag" || d.Location.StartLine != 2 || d.Location.StartCol != 15 || d.Location.Line != 2 {
		t.Fatalf("location = %+v", d.Location)
	}
	if d.Number != uint16(diag.SemaTypeMismatch) || len(d.Notes) != 1 {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestSarifCarriesRules(t *testing.T) {
	bag, fs, _ := sample(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "glsl2hlsl", ToolVersion: "test"}); err != nil {
		t.Fatal(err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 || len(log.Runs[0].Results) != 1 {
		t.Fatalf("sarif = %s", buf.String())
	}
	if r := log.Runs[0].Results[0]; r.RuleID != diag.SemaTypeMismatch.ID() || r.Level != "error" {
		t.Fatalf("result = %+v", r)
	}
}

func TestTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.glsl", []byte("x"))
	toks := []token.Token{
		{Kind: token.Ident, Text: "x", Span: source.Span{File: id, Start: 0, End: 1}, Flags: token.FlagLineStart},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 1, End: 1}},
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs, nil); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("lines = %d:\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "ident") || !strings.Contains(buf.String(), "bol") {
		t.Fatalf("missing class or flags:\n%s", buf.String())
	}
}

func TestTokensJSONHonoursLineDirectives(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.glsl", []byte("a\nb\n"))
	toks := []token.Token{
		{Kind: token.Ident, Text: "b", Span: source.Span{File: id, Start: 2, End: 3}},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 4, End: 4}},
	}
	lm := &source.LineMap{}
	lm.Add(2, 10, 0)
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, fs, LineMaps{id: lm}); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Line != 10 || out[0].Physical != 2 || out[0].Class != "ident" {
		t.Fatalf("tokens = %+v", out)
	}
}
