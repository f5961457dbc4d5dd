package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
	// openUnits counts unit spans begun and not yet ended.
	openUnits atomic.Int64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open interval of work. The zero Span and a nil *Span are
// disabled and safe to End.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	unit   string
	scope  Scope
	name   string
	start  time.Time
	attrs  []Attr
}

var disabled = &Span{}

func begin(t Tracer, scope Scope, name string, parent frame) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	unit := parent.unit
	if scope == ScopeUnit {
		unit = name
		openUnits.Add(1)
	}
	s := &Span{
		tracer: t,
		id:     spanCounter.Add(1),
		parent: parent.span,
		unit:   unit,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	t.Emit(&Event{
		Time:     s.start,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Unit:     unit,
		Name:     name,
	})
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.start)
	if s.scope == ScopeUnit {
		openUnits.Add(-1)
	}
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Unit:     s.unit,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  elapsed,
		Attrs:    s.attrs,
	})
	// Повторный End ничего не пишет.
	s.tracer = nil
	return elapsed
}

// Attr records key=value on the end event.
func (s *Span) Attr(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// ID returns the span id, zero when tracing is off.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Unit returns the translation unit the span belongs to.
func (s *Span) Unit() string {
	if s == nil {
		return ""
	}
	return s.unit
}
