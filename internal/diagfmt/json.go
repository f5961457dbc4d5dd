package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
	// Line is the #line-adjusted start line.
	Line uint32 `json:"line,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Number   uint16 `json:"number"`
	// Title is the generic description of Code.
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	// Dropped counts diagnostics cut by JSONOpts.Max.
	Dropped int `json:"dropped,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	f := fs.Get(span.File)
	if f == nil {
		return LocationJSON{StartByte: span.Start, EndByte: span.End}
	}
	loc := LocationJSON{
		File:      f.FormatPath(opts.PathMode.name(), fs.BaseDir()),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
		loc.Line = opts.Lines.logical(span.File, startPos.Line)
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	dropped := 0
	if opts.Max > 0 && opts.Max < len(items) {
		dropped = len(items) - opts.Max
		items = items[:opts.Max]
	}
	errs := 0
	diagnostics := make([]DiagnosticJSON, 0, len(items))
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Number:   uint16(d.Code),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts),
				})
			}
		}
		if d.Severity == diag.SevError {
			errs++
		}
		diagnostics = append(diagnostics, dj)
	}
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Errors:      errs,
		Dropped:     dropped,
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
