package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStartNestsSpansUnderUnit(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)
	unit, ctx := Start(ctx, ScopeUnit, "a.vert")
	pass, pctx := Start(ctx, ScopePass, "verify")
	if UnitOf(pctx) != "a.vert" {
		t.Fatalf("unit = %q", UnitOf(pctx))
	}
	pass.Attr("hoisted", "2").End("ok")
	unit.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("events = %d", len(evs))
	}
	if evs[1].Name != "verify" || evs[1].ParentID != unit.ID() || evs[1].Unit != "a.vert" {
		t.Fatalf("pass event = %+v", evs[1])
	}
	end := evs[2]
	if end.Kind != KindSpanEnd || end.Detail != "ok" || len(end.Attrs) != 1 || end.Attrs[0].Value != "2" {
		t.Fatalf("end event = %+v", end)
	}
	if evs[0].Seq >= evs[3].Seq {
		t.Fatalf("sequence numbers must grow")
	}
}

func TestSpanEndTwiceWritesOnce(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	sp, _ := Start(WithTracer(context.Background(), ring), ScopePass, "emit")
	sp.End("")
	sp.End("")
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("events = %d", n)
	}
}

func TestPhaseLevelDropsFunctions(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	sp, _ := Start(WithTracer(context.Background(), ring), ScopeFunction, "main")
	sp.End("")
	if n := len(ring.Snapshot()); n != 0 {
		t.Fatalf("phase level kept %d function events", n)
	}
	if sp.ID() != 0 {
		t.Fatalf("dropped span must be disabled")
	}
}

func TestRingWrapsOldestFirst(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Fatalf("snapshot = %s", got)
	}
}

func TestChromeStreamIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatChrome)
	ctx := WithTracer(context.Background(), st)
	unit, ctx := Start(ctx, ScopeUnit, "water.frag")
	pass, _ := Start(ctx, ScopePass, "emit")
	pass.Attr("profile", "ps_5_0").End("")
	Point(ctx, ScopeUnit, "cache-hit", "")
	unit.End("")
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 3 {
		t.Fatalf("events = %v", doc.TraceEvents)
	}
	first := doc.TraceEvents[0]
	if first["ph"] != "X" || first["name"] != "emit" || first["tid"] == float64(0) {
		t.Fatalf("first event = %v", first)
	}
	if doc.TraceEvents[1]["ph"] != "i" || doc.TraceEvents[1]["tid"] != first["tid"] {
		t.Fatalf("point must share the unit lane: %v", doc.TraceEvents[1])
	}
}

func TestRingDumpChrome(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	sp, _ := Start(WithTracer(context.Background(), ring), ScopeDriver, "build")
	sp.End("")
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatChrome); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Fatalf("dump is not JSON:\n%s", buf.String())
	}
}

func TestTextFormat(t *testing.T) {
	out := string(FormatEvent(&Event{
		Kind:    KindSpanEnd,
		Unit:    "a.vert",
		Name:    "parse",
		Elapsed: 1500 * time.Microsecond,
		Attrs:   []Attr{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}},
	}, FormatText))
	if !strings.Contains(out, "a.vert ← parse 1.500ms b=2 a=1") {
		t.Fatalf("text = %q", out)
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("Detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	if formatFor("out.json") != FormatChrome || formatFor("out.ndjson") != FormatNDJSON || formatFor("-") != FormatText {
		t.Fatalf("unexpected format guess")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give Nop")
	}
}
