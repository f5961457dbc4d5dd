package trace

import (
	"io"
	"sync"
)

// encoder writes formatted events, framing Chrome output as one JSON
// document.
type encoder struct {
	w      io.Writer
	format Format
	n      int
}

func newEncoder(w io.Writer, format Format) *encoder {
	if format == FormatAuto {
		format = FormatText
	}
	e := &encoder{w: w, format: format}
	if format == FormatChrome {
		_, _ = io.WriteString(w, "{\"traceEvents\":[\n")
	}
	return e
}

func (e *encoder) write(ev *Event) error {
	data := FormatEvent(ev, e.format)
	if data == nil {
		return nil
	}
	if e.format == FormatChrome && e.n > 0 {
		if _, err := io.WriteString(e.w, ",\n"); err != nil {
			return err
		}
	}
	e.n++
	_, err := e.w.Write(data)
	return err
}

func (e *encoder) finish() error {
	if e.format != FormatChrome {
		return nil
	}
	_, err := io.WriteString(e.w, "\n]}\n")
	return err
}

// StreamTracer writes every event as soon as it is emitted. Write errors
// are dropped: tracing never fails a translation.
type StreamTracer struct {
	mu     sync.Mutex
	enc    *encoder
	level  Level
	closed bool
}

// NewStreamTracer returns a tracer writing to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{enc: newEncoder(w, format), level: level}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	ev.Seq = nextSeq()
	_ = t.enc.write(ev)
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.enc.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close terminates the Chrome array and closes the writer when it is a
// file; stderr and stdout stay open.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	err := t.enc.finish()
	t.mu.Unlock()

	if ferr := t.Flush(); err == nil {
		err = ferr
	}
	if c, ok := t.enc.w.(io.Closer); ok && !isStdio(t.enc.w) {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
