package pp

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

// directiveLine reads the rest of the physical line after '#'.
func (p *Preprocessor) directiveLine() []ppTok {
	var line []ppTok
	for {
		nt := p.lx.Peek()
		if nt.Kind == token.EOF || nt.AtLineStart() {
			return line
		}
		line = append(line, ppTok{Token: p.lx.Next()})
	}
}

func (p *Preprocessor) directive(hash ppTok) error {
	line := p.directiveLine()
	if p.lx.Errors() > 0 {
		return diag.ErrReported
	}
	first := p.sawToken
	p.sawToken = true
	if len(line) == 0 {
		return nil // пустая директива "#"
	}
	name, args := line[0], line[1:]
	sp := hash.Span.Cover(name.Span)

	// в пропускаемых ветках исполняются только условные директивы
	switch name.Text {
	case "if", "ifdef", "ifndef":
		return p.dirIf(name.Text, sp, args)
	case "elif":
		return p.dirElif(sp, args)
	case "else":
		return p.dirElse(sp)
	case "endif":
		return p.dirEndif(sp)
	}
	if p.skipping() {
		return nil
	}

	switch name.Text {
	case "version":
		return p.dirVersion(sp, args, first)
	case "extension":
		return p.dirExtension(sp, args)
	case "line":
		return p.dirLine(hash, sp, args)
	case "pragma":
		p.pragmas = append(p.pragmas, tokenTexts(args))
		return nil
	case "define":
		return p.dirDefine(sp, args)
	case "undef":
		return p.dirUndef(sp, args)
	case "error":
		return p.errorf(diag.PreErrorDirective, sp, "#error %s", tokenTexts(args))
	}
	return p.errorf(diag.PreInvalidDirective, sp, "invalid directive '#%s'", name.Text)
}

func isNameToken(t ppTok) bool {
	return t.Kind == token.Ident || t.IsKeyword()
}

func (p *Preprocessor) dirVersion(sp source.Span, args []ppTok, sawBefore bool) error {
	if sawBefore {
		return p.errorf(diag.PreVersionNotFirst, sp, "#version must occur before anything else")
	}
	if len(args) == 0 || args[0].Kind != token.IntLit {
		return p.errorf(diag.PreInvalidDirective, sp, "#version expects a version number")
	}
	v, err := strconv.Atoi(args[0].Text)
	if err != nil || v != 100 {
		return p.errorf(diag.PreUnsupportedVersion, args[0].Span, "version '%s' is not supported", tokenTexts(args))
	}
	if len(args) != 1 {
		return p.errorf(diag.PreInvalidDirective, sp, "unexpected tokens after #version 100")
	}
	p.version = v
	return nil
}

func (p *Preprocessor) dirExtension(sp source.Span, args []ppTok) error {
	if len(args) != 3 || !isNameToken(args[0]) || args[1].Kind != token.Colon || !isNameToken(args[2]) {
		return p.errorf(diag.PreInvalidDirective, sp, "expected '#extension name : behavior'")
	}
	name := args[0].Text
	behavior, ok := parseBehavior(args[2].Text)
	if !ok {
		return p.errorf(diag.PreInvalidBehavior, args[2].Span, "invalid extension behavior '%s'", args[2].Text)
	}
	if p.sawCode {
		p.warnf(diag.PreExtensionAfterCode, sp, "#extension directive should occur before any non-preprocessor tokens")
	}
	if name == "all" {
		if behavior == BehaviorEnable || behavior == BehaviorRequire {
			return p.errorf(diag.PreInvalidBehavior, args[2].Span, "behavior '%s' is not allowed for 'all'", args[2].Text)
		}
		for ext := range p.ext {
			p.ext[ext] = behavior
		}
		return nil
	}
	if !Supported(name) {
		if behavior == BehaviorRequire {
			return p.errorf(diag.PreUnknownExtension, args[0].Span, "extension '%s' is not supported", name)
		}
		p.warnf(diag.PreUnknownExtension, args[0].Span, "extension '%s' is not supported", name)
		return nil
	}
	p.ext[name] = behavior
	return nil
}

func (p *Preprocessor) dirLine(hash ppTok, sp source.Span, args []ppTok) error {
	expanded, err := p.expandList(args)
	if err != nil {
		return err
	}
	if len(expanded) == 0 {
		return p.errorf(diag.PreInvalidLine, sp, "#line expects a line number")
	}
	// выражения разделяем по верхнеуровневым токенам: "#line 10 2" это два числа
	vals, err := p.evalSequence(sp, expanded)
	if err != nil {
		return err
	}
	if len(vals) > 2 {
		return p.errorf(diag.PreInvalidLine, sp, "#line expects at most two numbers")
	}
	line, err := safecast.Conv[uint32](vals[0])
	if err != nil {
		return p.errorf(diag.PreInvalidLine, sp, "invalid line number %d", vals[0])
	}
	physNext := p.file.LineOf(hash.Span.Start) + 1
	src, _ := p.lines.Map(physNext)
	if len(vals) == 2 {
		if src, err = safecast.Conv[uint32](vals[1]); err != nil {
			return p.errorf(diag.PreInvalidLine, sp, "invalid source string number %d", vals[1])
		}
	}
	p.lines.Add(physNext, line, src)
	return nil
}

func (p *Preprocessor) dirDefine(sp source.Span, args []ppTok) error {
	if len(args) == 0 || !isNameToken(args[0]) {
		return p.errorf(diag.PreInvalidDirective, sp, "#define expects a macro name")
	}
	nameTok := args[0]
	if err := p.checkMacroName(nameTok); err != nil {
		return err
	}
	m := &Macro{Name: nameTok.Text, Span: nameTok.Span}
	rest := args[1:]
	if len(rest) > 0 && rest[0].Kind == token.LParen && rest[0].Flags&token.FlagSpaceBefore == 0 {
		m.FuncLike = true
		i := 1
		for {
			if i >= len(rest) {
				return p.errorf(diag.PreInvalidDirective, sp, "unterminated parameter list for macro '%s'", m.Name)
			}
			if rest[i].Kind == token.RParen && len(m.Params) == 0 {
				i++
				break
			}
			if rest[i].Kind != token.Ident {
				return p.errorf(diag.PreInvalidDirective, rest[i].Span, "expected parameter name")
			}
			if m.paramIndex(rest[i].Text) >= 0 {
				return p.errorf(diag.PreInvalidDirective, rest[i].Span, "duplicate macro parameter '%s'", rest[i].Text)
			}
			m.Params = append(m.Params, rest[i].Text)
			i++
			if i < len(rest) && rest[i].Kind == token.Comma {
				i++
				continue
			}
			if i < len(rest) && rest[i].Kind == token.RParen {
				i++
				break
			}
			return p.errorf(diag.PreInvalidDirective, sp, "malformed parameter list for macro '%s'", m.Name)
		}
		rest = rest[i:]
	}
	for _, t := range rest {
		m.Body = append(m.Body, t.Token)
	}
	if old, ok := p.macros[m.Name]; ok && !old.sameAs(m) {
		return p.errorf(diag.PreMacroRedefined, nameTok.Span, "macro '%s' redefined", m.Name)
	}
	p.macros[m.Name] = m
	return nil
}

func (p *Preprocessor) checkMacroName(t ppTok) error {
	if m, ok := p.macros[t.Text]; ok && m.predefined() {
		return p.errorf(diag.PreReservedMacroName, t.Span, "predefined macro '%s' cannot be redefined", t.Text)
	}
	if strings.HasPrefix(t.Text, "GL_") || t.Text == "defined" {
		return p.errorf(diag.PreReservedMacroName, t.Span, "macro name '%s' is reserved", t.Text)
	}
	if strings.Contains(t.Text, "__") {
		p.warnf(diag.PreReservedMacroName, t.Span, "macro names containing '__' are reserved")
	}
	return nil
}

func (p *Preprocessor) dirUndef(sp source.Span, args []ppTok) error {
	if len(args) != 1 || !isNameToken(args[0]) {
		return p.errorf(diag.PreInvalidDirective, sp, "#undef expects a single macro name")
	}
	if m, ok := p.macros[args[0].Text]; ok && m.predefined() {
		return p.errorf(diag.PreReservedMacroName, args[0].Span, "predefined macro '%s' cannot be undefined", args[0].Text)
	}
	delete(p.macros, args[0].Text)
	return nil
}

func (p *Preprocessor) dirIf(kind string, sp source.Span, args []ppTok) error {
	frame := condFrame{parentActive: !p.skipping(), span: sp}
	if !frame.parentActive {
		p.conds = append(p.conds, frame)
		return nil
	}
	var cond bool
	switch kind {
	case "ifdef", "ifndef":
		if len(args) != 1 || !isNameToken(args[0]) {
			return p.errorf(diag.PreInvalidDirective, sp, "#%s expects a single macro name", kind)
		}
		_, defined := p.macros[args[0].Text]
		cond = defined == (kind == "ifdef")
	default:
		v, err := p.evalCondition(sp, args)
		if err != nil {
			return err
		}
		cond = v != 0
	}
	frame.active, frame.taken = cond, cond
	p.conds = append(p.conds, frame)
	return nil
}

func (p *Preprocessor) dirElif(sp source.Span, args []ppTok) error {
	n := len(p.conds)
	if n == 0 {
		return p.errorf(diag.PreUnexpectedElse, sp, "#elif without #if")
	}
	top := &p.conds[n-1]
	if top.sawElse {
		return p.errorf(diag.PreUnexpectedElse, sp, "#elif after #else")
	}
	if !top.parentActive || top.taken {
		top.active = false
		return nil
	}
	v, err := p.evalCondition(sp, args)
	if err != nil {
		return err
	}
	top.active = v != 0
	top.taken = top.active
	return nil
}

func (p *Preprocessor) dirElse(sp source.Span) error {
	n := len(p.conds)
	if n == 0 {
		return p.errorf(diag.PreUnexpectedElse, sp, "#else without #if")
	}
	top := &p.conds[n-1]
	if top.sawElse {
		return p.errorf(diag.PreUnexpectedElse, sp, "#else after #else")
	}
	top.sawElse = true
	top.active = top.parentActive && !top.taken
	top.taken = true
	return nil
}

func (p *Preprocessor) dirEndif(sp source.Span) error {
	n := len(p.conds)
	if n == 0 {
		return p.errorf(diag.PreUnexpectedElse, sp, "#endif without #if")
	}
	p.conds = p.conds[:n-1]
	return nil
}
