package parser

import (
	"fmt"
	"slices"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/token"
)

type Options struct {
	Reporter diag.Reporter
	// Strings interns identifier names; a fresh interner is used when nil.
	Strings *source.Interner
}

// Parser: состояние парсера на одну единицу трансляции.
// Разбор fail-fast: первая синтаксическая ошибка останавливает всё.
type Parser struct {
	toks     []token.Token
	pos      int
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	failed   bool
	ierr     error
}

// Parse builds the tree for one preprocessed token stream. The stream must
// end with EOF. On a syntax error the diagnostic is reported and
// diag.ErrReported is returned.
func Parse(toks []token.Token, opts Options) (*ast.Node, error) {
	if opts.Strings == nil {
		opts.Strings = source.NewInterner()
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return nil, diag.Internalf("parse", "token stream is not EOF-terminated")
	}
	p := &Parser{toks: toks, opts: opts, lastSpan: toks[0].Span.ZeroideToStart()}
	root, ok := p.parseTranslationUnit()
	if !ok {
		if root != nil {
			root.Destroy()
		}
		if p.ierr != nil {
			return nil, p.ierr
		}
		return nil, diag.ErrReported
	}
	return root, nil
}

func (p *Parser) parseTranslationUnit() (*ast.Node, bool) {
	start := p.peek().Span
	unit := ast.New(ast.KindTranslationUnit, start)
	for !p.at(token.EOF) {
		decl, ok := p.parseExternalDeclaration()
		if !ok {
			return unit, false
		}
		if err := unit.Append(decl); err != nil {
			return unit, p.internal(err)
		}
	}
	unit.Span = start.Cover(p.lastSpan)
	return unit, true
}

func (p *Parser) peek() token.Token { return p.peekN(0) }

func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan: EOF указываем сразу после последнего токена
func (p *Parser) diagSpan() source.Span {
	if tok := p.peek(); tok.Kind != token.EOF {
		return tok.Span
	}
	return p.lastSpan.ZeroideToEnd()
}

// fail reports the first syntax error and poisons the parser. Later calls
// are ignored, so only one diagnostic is ever produced.
func (p *Parser) fail(code diag.Code, sp source.Span, format string, args ...any) bool {
	if p.failed {
		return false
	}
	p.failed = true
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
	}
	return false
}

func (p *Parser) err(code diag.Code, format string, args ...any) bool {
	tok := p.peek()
	if tok.Kind == token.KwReserved {
		return p.fail(diag.SynReservedWord, tok.Span, "'%s' is a reserved word", tok.Text)
	}
	return p.fail(code, p.diagSpan(), format, args...)
}

// internal records a broken tree invariant; it is returned from Parse
// instead of a user diagnostic.
func (p *Parser) internal(err error) bool {
	if !p.failed {
		p.failed = true
		p.ierr = diag.Internal("parse", err)
	}
	return false
}

// expect: ожидаем конкретный токен
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, "expected %s, found %s", what, describeToken(p.peek()))
	return token.Token{}, false
}

func (p *Parser) intern(tok token.Token) source.StringID {
	return p.opts.Strings.Intern(tok.Text)
}

func describeToken(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident, token.IntLit, token.FloatLit:
		return fmt.Sprintf("'%s'", tok.Text)
	}
	return fmt.Sprintf("'%s'", tok.Kind)
}

// attach appends children to n in order; nil fills an empty slot.
func (p *Parser) attach(n *ast.Node, children ...*ast.Node) bool {
	for _, c := range children {
		if err := n.Append(c); err != nil {
			return p.internal(err)
		}
	}
	return true
}
