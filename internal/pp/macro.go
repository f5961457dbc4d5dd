package pp

import (
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

type macroKind uint8

const (
	macroUser macroKind = iota
	macroPredefined
	macroLine
	macroFile
)

// Macro is one #define.
type Macro struct {
	Name     string
	FuncLike bool
	Params   []string
	Body     []token.Token
	Span     source.Span
	kind     macroKind
}

func (m *Macro) predefined() bool { return m.kind != macroUser }

// sameAs reports whether a redefinition is token-for-token identical,
// including the presence of whitespace between tokens.
func (m *Macro) sameAs(o *Macro) bool {
	if m.FuncLike != o.FuncLike || len(m.Params) != len(o.Params) || len(m.Body) != len(o.Body) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range m.Body {
		a, b := m.Body[i], o.Body[i]
		if a.Text != b.Text {
			return false
		}
		if i > 0 && (a.Flags&token.FlagSpaceBefore != 0) != (b.Flags&token.FlagSpaceBefore != 0) {
			return false
		}
	}
	return true
}

func (m *Macro) paramIndex(name string) int {
	for i, p := range m.Params {
		if p == name {
			return i
		}
	}
	return -1
}

// ppTok is a token travelling through expansion together with its hide set:
// the names of macros whose expansion produced it.
type ppTok struct {
	token.Token
	hide []string
}

func (t ppTok) hidden(name string) bool {
	for _, h := range t.hide {
		if h == name {
			return true
		}
	}
	return false
}

func unionHide(a []string, name string) []string {
	for _, h := range a {
		if h == name {
			return a
		}
	}
	out := make([]string, len(a), len(a)+1)
	copy(out, a)
	return append(out, name)
}

func intersectHide(a, b []string) []string {
	var out []string
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

func tokenTexts(toks []ppTok) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 && t.Flags&token.FlagSpaceBefore != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
