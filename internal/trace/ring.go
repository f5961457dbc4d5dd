package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory so they can be dumped
// after an internal error.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  uint64 // total events stored; next%len(buf) is the write slot
	level Level
}

// NewRingTracer returns a ring holding capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	e := *ev
	e.Seq = nextSeq()
	t.buf[t.next%uint64(len(t.buf))] = e
	t.next++
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	if t.next <= size {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	head := t.next % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[head:]...)
	return append(out, t.buf[:head]...)
}

// Dump writes the snapshot to w, keeping the original sequence numbers.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	enc := newEncoder(w, format)
	for _, ev := range t.Snapshot() {
		if err := enc.write(&ev); err != nil {
			return err
		}
	}
	return enc.finish()
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
