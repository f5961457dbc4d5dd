package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a pass or unit.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks its end and carries the elapsed time.
	KindSpanEnd
	// KindPoint is an instant event such as a cache hit.
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers whole CLI operations (batch builds, link runs).
	ScopeDriver Scope = iota + 1
	// ScopeUnit covers one translation unit from source to HLSL.
	ScopeUnit
	// ScopePass covers one pass over a unit (preprocess, parse, verify, hoist, emit).
	ScopePass
	// ScopeFunction covers per-function work inside a pass.
	ScopeFunction
)

var scopeNames = [...]string{
	ScopeDriver:   "driver",
	ScopeUnit:     "unit",
	ScopePass:     "pass",
	ScopeFunction: "function",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is an extra key/value recorded on an event, kept in insertion order.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	// Unit names the shader the event belongs to; empty for driver events.
	Unit    string
	Name    string
	Detail  string
	Elapsed time.Duration // set on KindSpanEnd
	Attrs   []Attr
}
