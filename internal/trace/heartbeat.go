package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a periodic event naming how many units are still open.
// A stream of heartbeats with no span ends means a unit is stuck.
type Heartbeat struct {
	tracer Tracer
	every  time.Duration
	stop   chan struct{}
	once   sync.Once
	done   chan struct{}
}

// StartHeartbeat starts beating into tracer every interval. It returns nil
// when tracing is off or interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		every:  interval,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.done)
	tick := time.NewTicker(h.every)
	defer tick.Stop()
	for beat := 1; ; beat++ {
		select {
		case now := <-tick.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
				Attrs:  []Attr{{Key: "open_units", Value: strconv.FormatInt(openUnits.Load(), 10)}},
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
