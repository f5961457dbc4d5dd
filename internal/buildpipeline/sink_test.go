package buildpipeline

import (
	"sync"
	"testing"
	"time"
)

func TestRecorderIsConcurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Emit(&r, Event{File: string(rune('a' + i)), Stage: StageParse, Status: StatusDone})
		}()
	}
	wg.Wait()
	if n := len(r.Events()); n != 8 {
		t.Fatalf("events = %d", n)
	}
	Emit(nil, Event{})
}

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	tm.Add(StageVerify, time.Millisecond)
	tm.Add(StageVerify, 2*time.Millisecond)
	tm.Add(StageEmit, time.Millisecond)
	if got := tm.Sum(StageVerify, StageEmit); got != 4*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
	var nilTimings *Timings
	if nilTimings.Duration(StageParse) != 0 {
		t.Fatal("nil timings must read as zero")
	}
}
