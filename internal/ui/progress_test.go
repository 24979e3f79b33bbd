package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"kdart/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("kdart build", []string{"a.kir", "b.kir"}, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "a.kir", Stage: buildpipeline.StagePrint, Status: buildpipeline.StatusCached})
	m.applyEvent(buildpipeline.Event{File: "a.kir", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "b.kir", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusError})
	m.applyEvent(buildpipeline.Event{File: "b.kir", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "unknown.kir", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})

	if m.items[0].status != "done" || m.items[1].status != "error" {
		t.Fatalf("items = %+v", m.items)
	}
	if m.cached != 1 || m.failed != 1 {
		t.Fatalf("cached=%d failed=%d", m.cached, m.failed)
	}
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v", got)
	}
	view := m.View()
	for _, want := range []string{"kdart build (lowering)", "a.kir", "1 cached, 1 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("build/kir/very/long/path.kir", 12); got != "build/kir..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("日本語.kir", 20); got != "日本語.kir" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("日本語.kir", 5); got != "日..." {
		t.Fatalf("got %q", got)
	}
}

func TestLineSinkPrintsFinishedFiles(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLineSink(&buf)
	sink.OnEvent(buildpipeline.Event{File: "a.kir", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	sink.OnEvent(buildpipeline.Event{File: "a.kir", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	sink.OnEvent(buildpipeline.Event{File: "b.kir", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	out := buf.String()
	if strings.Count(out, "\n") != 2 || !strings.Contains(out, "done a.kir") || !strings.Contains(out, "error b.kir: boom") {
		t.Fatalf("output = %q", out)
	}
}
