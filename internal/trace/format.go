package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output file extension
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
	FormatChrome               // chrome://tracing / Perfetto JSON
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "chrome", "json":
		return FormatChrome, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson|chrome)", s)
}

// formatFor guesses the format from an output path.
func formatFor(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"), strings.HasSuffix(path, ".jsonl"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	}
	return FormatText
}

// FormatEvent encodes ev. It returns nil when the format has nothing to
// say about the event: Chrome output only records finished spans.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatChrome:
		return formatChrome(ev)
	}
	return formatText(ev)
}

type ndjsonEvent struct {
	Time      string `json:"time"`
	Seq       uint64 `json:"seq"`
	Kind      string `json:"kind"`
	Scope     string `json:"scope"`
	SpanID    uint64 `json:"span_id,omitempty"`
	ParentID  uint64 `json:"parent_id,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Name      string `json:"name"`
	Detail    string `json:"detail,omitempty"`
	ElapsedUS int64  `json:"elapsed_us,omitempty"`
	Attrs     []Attr `json:"attrs,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(ndjsonEvent{
		Time:      ev.Time.Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Unit:      ev.Unit,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Attrs:     ev.Attrs,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// lanes gives every unit its own row ("thread") in the Chrome viewer;
// driver events stay on lane 0.
var lanes struct {
	sync.Mutex
	ids map[string]int
}

func laneOf(unit string) int {
	if unit == "" {
		return 0
	}
	lanes.Lock()
	defer lanes.Unlock()
	if lanes.ids == nil {
		lanes.ids = make(map[string]int)
	}
	id, ok := lanes.ids[unit]
	if !ok {
		id = len(lanes.ids) + 1
		lanes.ids[unit] = id
	}
	return id
}

type chromeEvent struct {
	Name  string            `json:"name"`
	Cat   string            `json:"cat"`
	Ph    string            `json:"ph"`
	TS    int64             `json:"ts"`
	Dur   int64             `json:"dur,omitempty"`
	PID   int               `json:"pid"`
	TID   int               `json:"tid"`
	Scope string            `json:"s,omitempty"`
	Args  map[string]string `json:"args,omitempty"`
}

// formatChrome emits one element of a Trace Event Format array: a complete
// ("X") event per finished span and an instant ("i") event per point.
func formatChrome(ev *Event) []byte {
	ce := chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		PID:  1,
		TID:  laneOf(ev.Unit),
	}
	switch ev.Kind {
	case KindSpanEnd:
		ce.Ph = "X"
		ce.TS = ev.Time.Add(-ev.Elapsed).UnixMicro()
		ce.Dur = max(ev.Elapsed.Microseconds(), 1)
	case KindPoint, KindHeartbeat:
		ce.Ph, ce.Scope = "i", "t"
		ce.TS = ev.Time.UnixMicro()
	default:
		return nil
	}
	if ev.Detail != "" || len(ev.Attrs) > 0 {
		ce.Args = make(map[string]string, len(ev.Attrs)+1)
		for _, a := range ev.Attrs {
			ce.Args[a.Key] = a.Value
		}
		if ev.Detail != "" {
			ce.Args["detail"] = ev.Detail
		}
	}
	data, err := json.Marshal(ce)
	if err != nil {
		return nil
	}
	return data
}

// formatText renders "[seq] unit → name (detail) 1.2ms k=v".
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%6d] ", ev.Seq)
	if ev.Unit != "" {
		sb.WriteString(ev.Unit)
		sb.WriteByte(' ')
	}
	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	case KindHeartbeat:
		sb.WriteString("♡ ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&sb, " %.3fms", float64(ev.Elapsed.Microseconds())/1000)
	}
	for _, a := range ev.Attrs {
		sb.WriteString(" " + a.Key + "=" + a.Value)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
