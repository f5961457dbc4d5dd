package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// TokenOutput is one token of the JSON dump.
type TokenOutput struct {
	Kind   string `json:"kind"`
	Class  string `json:"class"`
	Text   string `json:"text,omitempty"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
	// Physical is the line in the file when #line moved Line.
	Physical uint32   `json:"physical,omitempty"`
	Start    uint32   `json:"start"`
	End      uint32   `json:"end"`
	Flags    []string `json:"flags,omitempty"`
	Leading  []string `json:"leading,omitempty"`
}

func tokenClass(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "eof"
	case tok.IsIdent():
		return "ident"
	case tok.IsLiteral():
		return "literal"
	case tok.IsKeyword():
		return "keyword"
	case tok.IsPunctOrOp():
		return "op"
	}
	return "other"
}

func tokenFlags(tok token.Token) []string {
	var flags []string
	if tok.Flags&token.FlagLineStart != 0 {
		flags = append(flags, "bol")
	}
	if tok.Flags&token.FlagSpaceBefore != 0 {
		flags = append(flags, "space")
	}
	return flags
}

func toOutput(tok token.Token, fs *source.FileSet, lines LineMaps) TokenOutput {
	start, _ := fs.Resolve(tok.Span)
	out := TokenOutput{
		Kind:   tok.Kind.String(),
		Class:  tokenClass(tok),
		Text:   tok.Text,
		Line:   start.Line,
		Column: start.Col,
		Start:  tok.Span.Start,
		End:    tok.Span.End,
		Flags:  tokenFlags(tok),
	}
	if lm := lines[tok.Span.File]; lm != nil {
		if _, logical := lm.Map(start.Line); logical != start.Line {
			out.Physical, out.Line = start.Line, logical
		}
	}
	for _, tr := range tok.Leading {
		out.Leading = append(out.Leading, tr.Kind.String())
	}
	return out
}

// FormatTokensPretty prints one token per line: logical position, class,
// kind and text. Tokens moved by #line show their physical line too.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, lines LineMaps) error {
	for i, tok := range tokens {
		o := toOutput(tok, fs, lines)
		var b strings.Builder
		fmt.Fprintf(&b, "%4d %4d:%-3d %-7s %-14s", i+1, o.Line, o.Column, o.Class, o.Kind)
		if o.Text != "" {
			fmt.Fprintf(&b, " %q", o.Text)
		}
		if o.Physical != 0 {
			fmt.Fprintf(&b, " [physical %d]", o.Physical)
		}
		if len(o.Flags) > 0 {
			b.WriteString(" " + strings.Join(o.Flags, ","))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet, lines LineMaps) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, toOutput(tok, fs, lines))
		if tok.Kind == token.EOF {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
