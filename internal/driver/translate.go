// Package driver runs the translator pipeline over shader sources: it
// preprocesses, parses, verifies, hoists and emits one unit at a time and
// links vertex/fragment pairs.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/ast"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/diag"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/hlsl"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/iface"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/observ"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/parser"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/pp"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/sema"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/target"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/trace"
)

// DefaultMaxDiagnostics caps the diagnostics kept per unit.
const DefaultMaxDiagnostics = 100

// Request describes one translation unit.
type Request struct {
	// Name is used in diagnostics; it need not exist on disk.
	Name    string
	Source  []byte
	Stage   target.Stage
	Level   target.Level
	Options target.Options
	// Defines are predefined object-like macros.
	Defines        map[string]string
	MaxDiagnostics int
	// Progress receives per-stage events; nil drops them.
	Progress buildpipeline.ProgressSink
}

// Result is a successfully translated unit.
type Result struct {
	Name      string           `msgpack:"name"`
	Stage     target.Stage     `msgpack:"stage"`
	Level     target.Level     `msgpack:"level"`
	HLSL      *hlsl.Output     `msgpack:"hlsl"`
	Interface *iface.Interface `msgpack:"interface"`
	// Hoisted counts the short-circuit expressions rewritten into statements.
	Hoisted int `msgpack:"hoisted"`
	// Warnings are non-fatal diagnostics in logical coordinates.
	Warnings []Message     `msgpack:"warnings"`
	Timings  observ.Report `msgpack:"timings"`
	// Cached is set when the result came from the disk cache.
	Cached bool `msgpack:"-"`
}

// Text returns the unit's HLSL without a link prologue.
func (r *Result) Text() string {
	if r == nil || r.HLSL == nil {
		return ""
	}
	return r.HLSL.Body + "\n" + r.HLSL.Entry
}

// unit is the in-memory state of one translation.
type unit struct {
	req   Request
	files *source.FileSet
	file  *source.File
	bag   *diag.Bag
	rep   diag.Reporter
	timer *observ.Timer
	pre   *pp.Result
}

func newUnit(req Request) *unit {
	if req.MaxDiagnostics <= 0 {
		req.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if req.Name == "" {
		req.Name = "<" + req.Stage.String() + ">"
	}
	u := &unit{
		req:   req,
		files: source.NewFileSet(),
		bag:   diag.NewBag(req.MaxDiagnostics),
		timer: observ.NewTimer(),
	}
	u.rep = diag.NewDedupReporter(&diag.BagReporter{Bag: u.bag})
	u.file = u.files.Get(u.files.AddVirtual(req.Name, req.Source))
	return u
}

// Translate runs the whole pipeline over one unit. User errors come back
// as *CompileError; anything else is an internal failure.
func Translate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	u := newUnit(req)
	span, ctx := trace.Start(ctx, trace.ScopeUnit, u.req.Name)
	span.Attr("stage", u.req.Stage.String()).Attr("level", u.req.Level.String())

	res, err := u.run(ctx)
	if err != nil {
		span.End("failed")
		u.emit(buildpipeline.StageEmit, buildpipeline.StatusError, err)
		return nil, err
	}
	span.Attr("hoisted", strconv.Itoa(res.Hoisted)).End("ok")
	return res, nil
}

func (u *unit) emit(stage buildpipeline.Stage, status buildpipeline.Status, err error) {
	buildpipeline.Emit(u.req.Progress, buildpipeline.Event{
		File:   u.req.Name,
		Stage:  stage,
		Status: status,
		Err:    err,
	})
}

// pass times fn, wraps it in a trace span and reports progress.
func (u *unit) pass(ctx context.Context, stage buildpipeline.Stage, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.emit(stage, buildpipeline.StatusWorking, nil)
	span, _ := trace.Start(ctx, trace.ScopePass, name)
	err := u.timer.Measure(name, fn)
	span.End("")
	if err != nil {
		return u.fail(err)
	}
	return nil
}

// fail turns a pass error into the caller-facing error.
func (u *unit) fail(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if diag.IsInternal(err) {
		return err
	}
	if !u.bag.HasErrors() && !errors.Is(err, diag.ErrReported) {
		return diag.Internal("translate", err)
	}
	return u.compileError()
}

func (u *unit) run(ctx context.Context) (*Result, error) {
	var (
		root   *ast.Node
		c      *sema.Context
		w      *hlsl.Writer
		in     *iface.Interface
		out    *hlsl.Output
		hoists int
	)
	err := u.pass(ctx, buildpipeline.StagePreprocess, "preprocess", func() error {
		var err error
		u.pre, err = pp.Preprocess(u.file, pp.Options{
			Stage:    u.req.Stage,
			Level:    u.req.Level,
			Reporter: u.rep,
			Defines:  u.req.Defines,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	strs := source.NewInterner()
	err = u.pass(ctx, buildpipeline.StageParse, "parse", func() error {
		var err error
		root, err = parser.Parse(u.pre.Tokens, parser.Options{Reporter: u.rep, Strings: strs})
		return err
	})
	if err != nil {
		return nil, err
	}

	err = u.pass(ctx, buildpipeline.StageVerify, "verify", func() error {
		c = sema.NewContext(sema.Options{
			Stage:      u.req.Stage,
			Level:      u.req.Level,
			Flags:      u.req.Options,
			Reporter:   u.rep,
			Extensions: u.pre.Extensions,
			Strings:    strs,
		})
		if err := sema.Verify(c, root); err != nil {
			return err
		}
		if u.bag.HasErrors() {
			return diag.ErrReported
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = u.pass(ctx, buildpipeline.StageVerify, "hoist", func() error {
		var err error
		hoists, err = sema.HoistShortCircuits(c)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = u.pass(ctx, buildpipeline.StageEmit, "emit", func() error {
		w = hlsl.New(c, hlsl.Options{Flags: u.req.Options, Line: u.logicalLine})
		if err := w.AssignNames(root); err != nil {
			return err
		}
		var err error
		if in, err = iface.Build(c); err != nil {
			return err
		}
		out, err = w.Write(root, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.emit(buildpipeline.StageEmit, buildpipeline.StatusDone, nil)

	return &Result{
		Name:      u.req.Name,
		Stage:     u.req.Stage,
		Level:     u.req.Level,
		HLSL:      out,
		Interface: in,
		Hoisted:   hoists,
		Warnings:  u.messages(),
		Timings:   u.timer.Report(),
	}, nil
}

// logicalLine maps a span onto the line the user sees after #line.
func (u *unit) logicalLine(sp source.Span) (int, bool) {
	if sp.Empty() && sp.Start == 0 {
		return 0, false
	}
	start, _ := u.files.Resolve(sp)
	if start.Line == 0 {
		return 0, false
	}
	if u.pre == nil || u.pre.Lines == nil {
		return int(start.Line), true
	}
	_, line := u.pre.Lines.Map(start.Line)
	return int(line), true
}

// Link pairs a vertex result with a fragment result.
func Link(vs, fs *Result, budget int) (*LinkResult, error) {
	if vs == nil || fs == nil {
		return nil, diag.Internalf("link", "missing unit")
	}
	if vs.Stage != target.Vertex || fs.Stage != target.Fragment {
		return nil, fmt.Errorf("link: expected a vertex and a fragment shader, got %s and %s", vs.Stage, fs.Stage)
	}
	return linkUnits(vs, fs, budget)
}
