package ui

import (
	"strings"
	"testing"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	m := NewProgressModel("building", []string{"a.vert", "a.frag", "b.vert"}, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{File: "a.vert", Stage: buildpipeline.StageVerify, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "a.frag", Stage: buildpipeline.StageCache, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "unknown.frag", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError})
	if got := m.rows[0].label(); got != "verify" {
		t.Fatalf("a.vert label = %q", got)
	}
	if got := m.rows[1].label(); got != "cached" {
		t.Fatalf("a.frag label = %q", got)
	}
	if got := m.rows[2].label(); got != "queued" {
		t.Fatalf("b.vert label = %q", got)
	}
	if m.failed != 0 {
		t.Fatalf("events for unknown files must be ignored")
	}

	m.applyEvent(buildpipeline.Event{File: "a.vert", Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusError})
	m.done = true
	view := m.View()
	if !strings.Contains(view, "1 failed") || !strings.Contains(view, "a.frag") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestProgressFraction(t *testing.T) {
	m := NewProgressModel("building", []string{"a.vert", "a.frag"}, nil).(*progressModel)
	if got := m.fraction(); got != 0 {
		t.Fatalf("fresh fraction = %v", got)
	}
	for _, f := range []string{"a.vert", "a.frag"} {
		m.applyEvent(buildpipeline.Event{File: f, Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusDone})
		m.applyEvent(buildpipeline.Event{File: f, Stage: buildpipeline.StageLink, Status: buildpipeline.StatusDone})
	}
	if got := m.fraction(); got != 1 {
		t.Fatalf("linked fraction = %v", got)
	}
	if got := m.rows[0].label(); got != "linked" {
		t.Fatalf("label = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("shaders/very/long/name.frag", 10); got != "shaders..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.vert", 10); got != "a.vert" {
		t.Fatalf("truncate = %q", got)
	}
}
