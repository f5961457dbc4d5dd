package sema

import (
	"fmt"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/symbols"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// Options configure one translation context.
type Options struct {
	Stage      target.Stage
	Level      target.Level
	Flags      target.Options
	Reporter   diag.Reporter
	Extensions pp.Extensions
	// Strings must be the interner the parser used for identifier names.
	Strings *source.Interner
	Types   *types.Interner
}

// Feature is a bitset of built-ins and constructs the emitted code depends on.
type Feature uint32

const (
	FeatureFragCoord Feature = 1 << iota
	FeatureFrontFacing
	FeaturePointCoord
	FeaturePointSize
	FeaturePosition
	FeatureFragColor
	FeatureFragData
	FeatureFragDepth
	FeatureDerivatives
	FeatureDiscard
)

var featureNames = []string{
	"gl_FragCoord", "gl_FrontFacing", "gl_PointCoord", "gl_PointSize", "gl_Position",
	"gl_FragColor", "gl_FragData", "gl_FragDepthEXT", "derivatives", "discard",
}

// Has reports whether every bit of f is set.
func (s Feature) Has(f Feature) bool { return s&f == f }

// Strings lists the names of the set bits.
func (s Feature) Strings() []string {
	var out []string
	for i, name := range featureNames {
		if s&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// scopeFrame is one entry of the lexical scope stack.
type scopeFrame struct {
	id        symbols.ScopeID
	floatPrec types.Precision
	intPrec   types.Precision
}

// funcState tracks the function whose body is being verified.
type funcState struct {
	sym    symbols.SymbolID
	result types.TypeID
}

// Context is the per-unit translation context. It owns every counter and
// worklist the verification passes share and is discarded once the unit
// has been emitted.
type Context struct {
	Strings  *source.Interner
	Types    *types.Interner
	Symbols  *symbols.Table
	Reporter diag.Reporter

	Stage      target.Stage
	Level      target.Level
	Flags      target.Options
	Extensions pp.Extensions

	// Features accumulates the built-ins referenced by the unit.
	Features Feature

	BuiltinScope symbols.ScopeID
	GlobalScope  symbols.ScopeID

	scopes []scopeFrame
	// worklist holds Conditional nodes in pre-order until hoisting.
	worklist []*ast.Node
	drained  bool
	fn       *funcState
	// loopOwner maps a loop index to the for statement declaring it.
	loopOwner map[symbols.SymbolID]*ast.Node
	// calls is the user call graph: caller -> callees.
	calls    map[symbols.SymbolID][]symbols.SymbolID
	callSite map[symbols.SymbolID]*ast.Node
	tempSeq  int
}

// NewContext creates a context with the built-in scope populated.
func NewContext(opts Options) *Context {
	if opts.Strings == nil {
		opts.Strings = source.NewInterner()
	}
	if opts.Types == nil {
		opts.Types = types.NewInterner()
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Extensions == nil {
		opts.Extensions = pp.NewExtensions()
	}
	c := &Context{
		Strings:    opts.Strings,
		Types:      opts.Types,
		Symbols:    symbols.NewTable(opts.Strings),
		Reporter:   opts.Reporter,
		Stage:      opts.Stage,
		Level:      opts.Level,
		Flags:      opts.Flags,
		Extensions: opts.Extensions,
		loopOwner:  make(map[symbols.SymbolID]*ast.Node),
		calls:      make(map[symbols.SymbolID][]symbols.SymbolID),
		callSite:   make(map[symbols.SymbolID]*ast.Node),
	}
	c.BuiltinScope = c.Symbols.NewScope(symbols.ScopeBuiltin, symbols.NoScopeID)
	c.GlobalScope = c.Symbols.NewScope(symbols.ScopeGlobal, c.BuiltinScope)
	c.declareBuiltins()
	frame := scopeFrame{id: c.GlobalScope, intPrec: types.PrecisionMedium}
	if c.Stage == target.Vertex {
		frame.floatPrec = types.PrecisionHigh
		frame.intPrec = types.PrecisionHigh
	}
	c.scopes = append(c.scopes, frame)
	return c
}

// Worklist returns the pending short-circuit candidates in encounter order.
func (c *Context) Worklist() []*ast.Node { return c.worklist }

func (c *Context) scope() symbols.ScopeID { return c.scopes[len(c.scopes)-1].id }

func (c *Context) frame() *scopeFrame { return &c.scopes[len(c.scopes)-1] }

func (c *Context) atGlobalScope() bool { return c.scope() == c.GlobalScope }

// pushScope allocates a fresh scope id under the current scope.
func (c *Context) pushScope(kind symbols.ScopeKind) symbols.ScopeID {
	parent := c.frame()
	id := c.Symbols.NewScope(kind, parent.id)
	c.scopes = append(c.scopes, scopeFrame{id: id, floatPrec: parent.floatPrec, intPrec: parent.intPrec})
	return id
}

func (c *Context) popScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// NewScopeID allocates a scope id below parent for nodes synthesised after
// verification.
func (c *Context) NewScopeID(parent symbols.ScopeID) symbols.ScopeID {
	return c.Symbols.NewScope(symbols.ScopeBlock, parent)
}

func (c *Context) name(id source.StringID) string {
	s, _ := c.Strings.Lookup(id)
	return s
}

func (c *Context) typeName(id types.TypeID) string { return c.Types.Name(id) }

// errorf reports a user error and returns diag.ErrReported.
func (c *Context) errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	c.Reporter.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
	return diag.ErrReported
}

// errorNote is errorf with a note pointing at a related location.
func (c *Context) errorNote(code diag.Code, sp source.Span, noteSpan source.Span, note, format string, args ...any) error {
	diag.ReportError(c.Reporter, code, sp, fmt.Sprintf(format, args...)).WithNote(noteSpan, note).Emit()
	return diag.ErrReported
}

func (c *Context) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	c.Reporter.Report(code, diag.SevWarning, sp, fmt.Sprintf(format, args...), nil)
}
