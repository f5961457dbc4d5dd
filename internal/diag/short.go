package diag

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// ShortOptions configures FormatShort.
type ShortOptions struct {
	Notes bool
	// Lines maps physical lines to the lines set by #line, per file.
	Lines map[source.FileID]*source.LineMap
}

type shortLine struct {
	path string
	line uint32
	col  uint32
	sev  string
	code string
	msg  string
}

// FormatShort renders one diagnostic per line in the compiler style
// "path(line,col): error CODE: message", sorted by position.
func FormatShort(diags []Diagnostic, fs *source.FileSet, opts ShortOptions) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		if l, ok := locate(fs, d.Primary, opts.Lines); ok {
			l.sev, l.code, l.msg = SeverityLabel(d.Severity), d.Code.ID(), oneLine(d.Message)
			lines = append(lines, l)
		}
		if !opts.Notes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := locate(fs, n.Span, opts.Lines); ok {
				l.sev, l.msg = "note", oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		switch {
		case a.path != b.path:
			return strings.Compare(a.path, b.path)
		case a.line != b.line:
			return cmpU32(a.line, b.line)
		case a.col != b.col:
			return cmpU32(a.col, b.col)
		}
		return 0
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.code == "" {
			fmt.Fprintf(&b, "%s(%d,%d): %s: %s", l.path, l.line, l.col, l.sev, l.msg)
			continue
		}
		fmt.Fprintf(&b, "%s(%d,%d): %s %s: %s", l.path, l.line, l.col, l.sev, l.code, l.msg)
	}
	return b.String()
}

func cmpU32(a, b uint32) int {
	if a < b {
		return -1
	}
	return 1
}

func locate(fs *source.FileSet, sp source.Span, lines map[source.FileID]*source.LineMap) (shortLine, bool) {
	file := fs.Get(sp.File)
	if file == nil {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(sp)
	path := file.Path
	if file.Flags&source.FileVirtual == 0 {
		path = file.FormatPath("relative", fs.BaseDir())
	}
	line := start.Line
	if lm := lines[sp.File]; lm != nil {
		_, line = lm.Map(line)
	}
	return shortLine{
		path: strings.TrimPrefix(filepath.ToSlash(path), "./"),
		line: line,
		col:  start.Col,
	}, true
}

// SeverityLabel returns the lowercase severity used in short output.
func SeverityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func oneLine(msg string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(msg), " "))
}
