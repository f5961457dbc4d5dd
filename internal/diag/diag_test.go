package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/shaders/sample.frag", []byte("a\nb\n"), 0)
	builtins := fs.AddVirtual("<builtins>", []byte("x\n"))

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaUndeclaredIdentifier,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: builtins, Start: 0, End: 0}, Msg: "declared here"},
			},
		},
	}

	want := "<builtins>(1,1): note: declared here\n" +
		"shaders/sample.frag(1,1): error SYN2001: first line second\n" +
		"shaders/sample.frag(2,1): warning SEM3001: another"
	if got := FormatShort(diags, fs, ShortOptions{Notes: true}); got != want {
		t.Fatalf("short output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	lm := &source.LineMap{}
	lm.Add(2, 40, 0)
	got := FormatShort(diags[:1], fs, ShortOptions{Lines: map[source.FileID]*source.LineMap{userFile: lm}})
	if !strings.HasPrefix(got, "shaders/sample.frag(40,1): ") {
		t.Fatalf("#line must move the reported line, got %q", got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:      "LEX1001",
		SynExpectSemicolon:  "SYN2002",
		PreUnknownExtension: "PRE2504",
		SemaTypeMismatch:    "SEM3003",
		LoopIndexWritten:    "LOP4004",
		LinkTypeMismatch:    "LNK5001",
		IOLoadFileError:     "IO6001",
		InternalFailure:     "INT9001",
		Code(7777):          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(7777).Title() != "Unknown error" {
		t.Fatalf("unknown code must fall back to the generic title")
	}
	if got := LoopUnbounded.String(); got != "[LOP4005]: Loop cannot be unrolled" {
		t.Fatalf("unexpected String(): %q", got)
	}
}

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := &BagReporter{Bag: bag}
	ReportWarning(r, PreExtensionWarning, source.Span{}, "warn").Emit()
	b := ReportError(r, SemaTypeMismatch, source.Span{Start: 4, End: 5}, "mismatch")
	b.Emit()
	b.Emit()
	ReportError(r, SemaRedeclaration, source.Span{}, "dropped").Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected bag to hold 2 items, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected bag to contain an error")
	}
	if errs := bag.Errors(); len(errs) != 1 || errs[0].Code != SemaTypeMismatch {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(&BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(PreMacroArgs, SevError, sp, "bad", nil)
	r.Report(PreMacroArgs, SevError, sp, "bad", nil)
	r.Report(PreMacroArgs, SevError, sp, "other", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestInternalError(t *testing.T) {
	base := errors.New("index 3 out of range")
	err := Internal("attach", base)
	if !IsInternal(err) {
		t.Fatalf("expected internal error")
	}
	if !errors.Is(err, base) {
		t.Fatalf("internal error must unwrap to its cause")
	}
	if again := Internal("outer", err); again != err {
		t.Fatalf("wrapping an internal error twice must be a no-op")
	}
	if IsInternal(fmt.Errorf("wrapped: %w", ErrReported)) {
		t.Fatalf("ErrReported is not internal")
	}
	if got := Internalf("extract", "slot %d", 2).Error(); got != "internal error: extract: slot 2" {
		t.Fatalf("unexpected message %q", got)
	}
}
