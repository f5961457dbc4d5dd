package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// For each item of bag (sorted by the caller) it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// then the source line with a ^~~~ underline below the span, then notes
// in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPainter(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, p, &d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

type painter struct {
	sev  map[diag.Severity]*color.Color
	loc  *color.Color
	code *color.Color
	mark *color.Color
	note *color.Color
}

func newPainter(enabled bool) *painter {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &painter{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		loc:  mk(color.Bold),
		code: mk(color.Faint),
		mark: mk(color.FgGreen, color.Bold),
		note: mk(color.FgBlue, color.Bold),
	}
}

func prettyOne(w io.Writer, p *painter, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	loc, start, end, ok := position(fs, d.Primary, opts.PathMode, opts.Lines)
	head := fmt.Sprintf("%s: %s %s: %s",
		p.loc.Sprint(loc),
		p.sev[d.Severity].Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	if _, err := fmt.Fprintln(w, head); err != nil {
		return err
	}
	if ok {
		if err := snippet(w, p, fs.Get(d.Primary.File), start, end, opts); err != nil {
			return err
		}
	}
	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		nloc, _, _, nok := position(fs, n.Span, opts.PathMode, opts.Lines)
		prefix := "  " + p.note.Sprint("note") + ": "
		if nok {
			prefix = "  " + p.loc.Sprint(nloc) + ": " + p.note.Sprint("note") + ": "
		}
		if _, err := fmt.Fprintln(w, prefix+n.Msg); err != nil {
			return err
		}
	}
	return nil
}

// position renders "path:line:col" with the logical line; ok is false for
// spans that do not point into a loaded file.
func position(fs *source.FileSet, sp source.Span, mode PathMode, lines LineMaps) (string, source.LineCol, source.LineCol, bool) {
	if fs == nil {
		return "<unknown>", source.LineCol{}, source.LineCol{}, false
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>", source.LineCol{}, source.LineCol{}, false
	}
	start, end := fs.Resolve(sp)
	path := f.FormatPath(mode.name(), fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d", path, lines.logical(sp.File, start.Line), start.Col), start, end, true
}

func snippet(w io.Writer, p *painter, f *source.File, start, end source.LineCol, opts PrettyOpts) error {
	first := start.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context)
		if first > ctx {
			first -= ctx
		} else {
			first = 1
		}
	}
	gutter := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		if _, err := fmt.Fprintf(w, " %*d | %s\n", gutter, ln, text); err != nil {
			return err
		}
	}
	line := f.GetLine(start.Line)
	// columns are byte based; the underline is placed by display width
	pad := displayWidth(line, start.Col-1)
	span := 1
	if end.Line == start.Line && end.Col > start.Col {
		span = max(displayWidth(line, end.Col-1)-pad, 1)
	} else if end.Line > start.Line {
		span = max(runewidth.StringWidth(expandTabs(line))-pad, 1)
	}
	marker := "^" + strings.Repeat("~", span-1)
	_, err := fmt.Fprintf(w, " %*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), p.mark.Sprint(marker))
	return err
}

// displayWidth is the terminal width of the first n bytes of line.
func displayWidth(line string, n uint32) int {
	if int(n) > len(line) {
		n = uint32(len(line))
	}
	return runewidth.StringWidth(expandTabs(line[:n]))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
