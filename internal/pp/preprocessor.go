package pp

import (
	"fmt"
	"strconv"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/lexer"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// maxExpansionDepth bounds nested expansion so a pathological macro set
// cannot exhaust memory.
const maxExpansionDepth = 64

type Options struct {
	Stage    target.Stage
	Level    target.Level
	Reporter diag.Reporter
	// Defines are extra object-like macros, NAME -> replacement text.
	Defines map[string]string
}

// Result is everything the later phases consume from preprocessing.
type Result struct {
	Tokens     []token.Token // macro-expanded, terminated by EOF
	Extensions Extensions
	Lines      *source.LineMap
	Version    int
	Pragmas    []string
}

type condFrame struct {
	active       bool // текущая ветка выдаёт токены
	taken        bool // какая-то ветка уже была выбрана
	sawElse      bool
	parentActive bool
	span         source.Span
}

// Preprocessor executes directives and expands macros for one source file.
type Preprocessor struct {
	lx      *lexer.Lexer
	file    *source.File
	opts    Options
	macros  map[string]*Macro
	ext     Extensions
	lines   source.LineMap
	conds   []condFrame
	pending []ppTok
	out     []token.Token
	pragmas []string
	version int
	depth   int

	sawToken bool // любой токен или директива, для #version
	sawCode  bool // не-препроцессорный токен, для #extension
	failed   bool
}

// New prepares a preprocessor over file with the predefined macros installed.
func New(file *source.File, opts Options) *Preprocessor {
	p := &Preprocessor{
		lx:      lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file:    file,
		opts:    opts,
		macros:  make(map[string]*Macro),
		ext:     NewExtensions(),
		version: 100,
	}
	p.predefine("GL_ES", "1")
	p.predefine("__VERSION__", "100")
	if opts.Stage == target.Fragment && opts.Level >= target.Level10_0 {
		p.predefine("GL_FRAGMENT_PRECISION_HIGH", "1")
	}
	for _, ext := range supportedExtensions {
		p.predefine(ext, "1")
	}
	p.macros["__LINE__"] = &Macro{Name: "__LINE__", kind: macroLine}
	p.macros["__FILE__"] = &Macro{Name: "__FILE__", kind: macroFile}
	for name, text := range opts.Defines {
		p.defineText(name, text, macroUser)
	}
	return p
}

// Preprocess runs the whole file. On the first user error it stops and
// returns diag.ErrReported; the diagnostic is already with opts.Reporter.
func Preprocess(file *source.File, opts Options) (*Result, error) {
	return New(file, opts).Run()
}

func (p *Preprocessor) predefine(name, text string) {
	p.defineText(name, text, macroPredefined)
}

func (p *Preprocessor) defineText(name, text string, kind macroKind) {
	m := &Macro{Name: name, kind: kind}
	if text != "" {
		fs := source.NewFileSet()
		id := fs.AddVirtual("<define>", []byte(text))
		lx := lexer.New(fs.Get(id), lexer.Options{})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			tok.Flags &^= token.FlagLineStart
			tok.Leading = nil
			m.Body = append(m.Body, tok)
		}
	}
	p.macros[name] = m
}

// Run drives the preprocessor to EOF.
func (p *Preprocessor) Run() (*Result, error) {
	for {
		t := p.read()
		if p.lx.Errors() > 0 {
			return nil, diag.ErrReported
		}
		if t.Kind == token.EOF {
			if n := len(p.conds); n > 0 {
				return nil, p.errorf(diag.PreUnterminatedIf, p.conds[n-1].span, "unterminated conditional directive")
			}
			p.out = append(p.out, t.Token)
			break
		}
		if t.Kind == token.Hash && t.AtLineStart() {
			if err := p.directive(t); err != nil {
				return nil, err
			}
			continue
		}
		p.sawToken = true
		if p.skipping() {
			continue
		}
		if t.Kind == token.Ident {
			did, err := p.expand(p, t)
			if err != nil {
				return nil, err
			}
			if did {
				continue
			}
		}
		p.sawCode = true
		p.out = append(p.out, t.Token)
	}
	return &Result{
		Tokens:     p.out,
		Extensions: p.ext,
		Lines:      &p.lines,
		Version:    p.version,
		Pragmas:    p.pragmas,
	}, nil
}

func (p *Preprocessor) skipping() bool {
	n := len(p.conds)
	return n > 0 && !p.conds[n-1].active
}

// tokenReader is the input of macro expansion: the main stream or a
// finite list (macro arguments, #if lines).
type tokenReader interface {
	next() (ppTok, bool)
	peek() (ppTok, bool)
	pushFront(toks []ppTok)
}

// next/peek/pushFront make the preprocessor itself the stream reader.
func (p *Preprocessor) next() (ppTok, bool) {
	return p.read(), true
}

func (p *Preprocessor) peek() (ppTok, bool) {
	if len(p.pending) > 0 {
		return p.pending[0], true
	}
	return ppTok{Token: p.lx.Peek()}, true
}

func (p *Preprocessor) pushFront(toks []ppTok) {
	if len(toks) == 0 {
		return
	}
	merged := make([]ppTok, 0, len(toks)+len(p.pending))
	merged = append(merged, toks...)
	p.pending = append(merged, p.pending...)
}

func (p *Preprocessor) read() ppTok {
	if len(p.pending) > 0 {
		t := p.pending[0]
		p.pending = p.pending[1:]
		return t
	}
	return ppTok{Token: p.lx.Next()}
}

type listReader struct {
	toks []ppTok
}

func (r *listReader) next() (ppTok, bool) {
	if len(r.toks) == 0 {
		return ppTok{}, false
	}
	t := r.toks[0]
	r.toks = r.toks[1:]
	return t, true
}

func (r *listReader) peek() (ppTok, bool) {
	if len(r.toks) == 0 {
		return ppTok{}, false
	}
	return r.toks[0], true
}

func (r *listReader) pushFront(toks []ppTok) {
	merged := make([]ppTok, 0, len(toks)+len(r.toks))
	merged = append(merged, toks...)
	r.toks = append(merged, r.toks...)
}

// expandList fully macro-expands a finite token list.
func (p *Preprocessor) expandList(toks []ppTok) ([]ppTok, error) {
	r := &listReader{toks: append([]ppTok(nil), toks...)}
	out := make([]ppTok, 0, len(toks))
	for {
		t, ok := r.next()
		if !ok {
			return out, nil
		}
		if t.Kind == token.Ident {
			did, err := p.expand(r, t)
			if err != nil {
				return nil, err
			}
			if did {
				continue
			}
		}
		out = append(out, t)
	}
}

// expand replaces the macro invocation starting at t with its expansion,
// pushed back onto r. It reports false when t does not start an invocation.
func (p *Preprocessor) expand(r tokenReader, t ppTok) (bool, error) {
	m, ok := p.macros[t.Text]
	if !ok || t.hidden(t.Text) {
		return false, nil
	}
	switch m.kind {
	case macroLine:
		_, line := p.lines.Map(p.file.LineOf(t.Span.Start))
		r.pushFront([]ppTok{p.synth(t, token.IntLit, strconv.FormatUint(uint64(line), 10))})
		return true, nil
	case macroFile:
		src, _ := p.lines.Map(p.file.LineOf(t.Span.Start))
		r.pushFront([]ppTok{p.synth(t, token.IntLit, strconv.FormatUint(uint64(src), 10))})
		return true, nil
	}

	if p.depth >= maxExpansionDepth {
		return false, p.errorf(diag.PreMacroArgs, t.Span, "macro expansion of '%s' nested too deeply", t.Text)
	}
	p.depth++
	defer func() { p.depth-- }()

	if !m.FuncLike {
		hide := unionHide(t.hide, m.Name)
		r.pushFront(p.substitute(m, t, nil, hide))
		return true, nil
	}

	nt, ok := r.peek()
	if !ok || nt.Kind != token.LParen {
		return false, nil
	}
	r.next()
	args, rparen, err := p.collectArgs(r, m, t)
	if err != nil {
		return false, err
	}
	expanded := make([][]ppTok, len(args))
	for i, arg := range args {
		if expanded[i], err = p.expandList(arg); err != nil {
			return false, err
		}
	}
	hide := unionHide(intersectHide(t.hide, rparen.hide), m.Name)
	r.pushFront(p.substitute(m, t, expanded, hide))
	return true, nil
}

func (p *Preprocessor) collectArgs(r tokenReader, m *Macro, call ppTok) ([][]ppTok, ppTok, error) {
	var (
		args  [][]ppTok
		cur   []ppTok
		depth = 1
	)
	for {
		t, ok := r.next()
		if !ok || t.Kind == token.EOF {
			return nil, ppTok{}, p.errorf(diag.PreMacroArgs, call.Span, "unterminated invocation of macro '%s'", m.Name)
		}
		if t.Kind == token.Hash && t.AtLineStart() {
			return nil, ppTok{}, p.errorf(diag.PreMacroArgs, t.Span, "directive inside the arguments of macro '%s'", m.Name)
		}
		switch t.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				args = append(args, cur)
				if len(m.Params) == 0 && len(args) == 1 && len(args[0]) == 0 {
					args = nil
				}
				if len(args) != len(m.Params) {
					return nil, ppTok{}, p.errorf(diag.PreMacroArgs, call.Span,
						"macro '%s' expects %d argument(s), got %d", m.Name, len(m.Params), len(args))
				}
				return args, t, nil
			}
		case token.Comma:
			if depth == 1 {
				args = append(args, cur)
				cur = nil
				continue
			}
		}
		t.Flags &^= token.FlagLineStart
		cur = append(cur, t)
	}
}

// substitute builds the replacement list: parameters become their expanded
// arguments, every token is re-spanned to the invocation site.
func (p *Preprocessor) substitute(m *Macro, call ppTok, args [][]ppTok, hide []string) []ppTok {
	out := make([]ppTok, 0, len(m.Body))
	for i, bt := range m.Body {
		if args != nil && bt.Kind == token.Ident {
			if idx := m.paramIndex(bt.Text); idx >= 0 {
				for j, at := range args[idx] {
					nt := at
					nt.Span = call.Span
					nt.Leading = nil
					if j == 0 {
						nt.Flags = bt.Flags
					}
					nt.hide = mergeHide(at.hide, hide)
					out = append(out, nt)
				}
				continue
			}
		}
		nt := ppTok{Token: bt, hide: hide}
		nt.Span = call.Span
		if i == 0 {
			nt.Flags = call.Flags &^ token.FlagLineStart
		}
		out = append(out, nt)
	}
	return out
}

func mergeHide(a, b []string) []string {
	out := a
	for _, name := range b {
		out = unionHide(out, name)
	}
	return out
}

func (p *Preprocessor) synth(at ppTok, kind token.Kind, text string) ppTok {
	return ppTok{Token: token.Token{Kind: kind, Span: at.Span, Text: text, Flags: at.Flags &^ token.FlagLineStart}, hide: at.hide}
}

func (p *Preprocessor) errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	p.failed = true
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
	}
	return diag.ErrReported
}

func (p *Preprocessor) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevWarning, sp, fmt.Sprintf(format, args...), nil)
	}
}
