package driver

import (
	"fmt"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// Message is a diagnostic resolved to logical coordinates.
type Message struct {
	Severity string `json:"severity" msgpack:"sev"`
	Code     string `json:"code" msgpack:"code"`
	// Source is the source string number set by #line.
	Source  uint32 `json:"source" msgpack:"src"`
	Line    uint32 `json:"line" msgpack:"line"`
	Column  uint32 `json:"column" msgpack:"col"`
	Message string `json:"message" msgpack:"msg"`
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %d:%d: %s: %s", m.Severity, m.Source, m.Line, m.Code, m.Message)
}

// CompileError reports a unit rejected with user errors. The bag and file
// set are kept so callers can render source snippets.
type CompileError struct {
	Name        string
	Diagnostics []Message
	Bag         *diag.Bag
	Files       *source.FileSet
	Lines       *source.LineMap
}

func (e *CompileError) Error() string {
	var errs []string
	for _, m := range e.Diagnostics {
		if m.Severity == diag.SevError.String() {
			errs = append(errs, m.String())
		}
	}
	switch len(errs) {
	case 0:
		return e.Name + ": compilation failed"
	case 1:
		return e.Name + ": " + errs[0]
	}
	return fmt.Sprintf("%s: %s (and %d more errors)", e.Name, errs[0], len(errs)-1)
}

func (e *CompileError) Unwrap() error { return diag.ErrReported }

func (u *unit) compileError() *CompileError {
	return &CompileError{
		Name:        u.req.Name,
		Diagnostics: u.messages(),
		Bag:         u.bag,
		Files:       u.files,
		Lines:       u.lines(),
	}
}

func (u *unit) lines() *source.LineMap {
	if u.pre == nil {
		return nil
	}
	return u.pre.Lines
}

// messages resolves the bag in source order.
func (u *unit) messages() []Message {
	u.bag.Sort()
	items := u.bag.Items()
	if len(items) == 0 {
		return nil
	}
	lm := u.lines()
	out := make([]Message, 0, len(items))
	for _, d := range items {
		start, _ := u.files.Resolve(d.Primary)
		src, line := lm.Map(start.Line)
		out = append(out, Message{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Source:   src,
			Line:     line,
			Column:   start.Col,
			Message:  d.Message,
		})
	}
	return out
}
