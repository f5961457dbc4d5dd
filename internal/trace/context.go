package trace

import (
	"context"
	"time"
)

type tracerKey struct{}

type frameKey struct{}

// frame is the innermost open span of a context.
type frame struct {
	span uint64
	unit string
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

func frameOf(ctx context.Context) frame {
	if ctx != nil {
		if f, ok := ctx.Value(frameKey{}).(frame); ok {
			return f
		}
	}
	return frame{}
}

// UnitOf returns the translation unit whose span is open in ctx.
func UnitOf(ctx context.Context) string {
	return frameOf(ctx).unit
}

// Start opens a span nested in the one recorded in ctx. A ScopeUnit span
// names the unit; every span below it inherits that name.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	sp := begin(FromContext(ctx), scope, name, frameOf(ctx))
	if sp.ID() == 0 || ctx == nil {
		return sp, ctx
	}
	return sp, context.WithValue(ctx, frameKey{}, frame{span: sp.id, unit: sp.unit})
}

// Point emits an instant event inside the current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	f := frameOf(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: f.span,
		Unit:     f.unit,
		Name:     name,
		Detail:   detail,
	})
}
