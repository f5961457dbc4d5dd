// Package buildpipeline carries progress of batch translations from the
// driver to whatever renders it.
package buildpipeline

import (
	"sync"
	"time"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StagePreprocess expands macros and directives.
	StagePreprocess Stage = "preprocess"
	// StageParse builds the tree.
	StageParse Stage = "parse"
	// StageVerify runs scope, type and constant checks, loop analysis and hoisting.
	StageVerify Stage = "verify"
	// StageEmit writes HLSL.
	StageEmit Stage = "emit"
	// StageLink reconciles a vertex/fragment pair.
	StageLink Stage = "link"
	// StageCache is a disk cache hit.
	StageCache Stage = "cache"
)

// Stages lists translation stages in execution order.
var Stages = []Stage{StagePreprocess, StageParse, StageVerify, StageEmit, StageLink}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall batch when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Sinks are called from the
// goroutines translating units and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations summed over a batch.
type Timings struct {
	mu     sync.Mutex
	stages map[Stage]time.Duration
}

// Add accumulates a duration for the given stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Duration returns the recorded duration for stage.
func (t *Timings) Duration(stage Stage) time.Duration {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t *Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.Duration(stage)
	}
	return total
}
