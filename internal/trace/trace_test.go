package trace_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"kdart/internal/trace"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelStage, trace.FormatText)

	span := trace.Begin(tr, trace.ScopeStage, "lower", 0)
	inner := trace.Begin(tr, trace.ScopeUnit, "unit:a.kir", span.ID())
	inner.End("")
	span.WithExtra("units", "1").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ lower") || !strings.Contains(out, "← lower (ok) {units=1}") {
		t.Fatalf("missing stage events:\n%s", out)
	}
	if strings.Contains(out, "unit:a.kir") {
		t.Fatalf("unit event must be filtered at stage level:\n%s", out)
	}
}

func TestRingTracerKeepsLastEvents(t *testing.T) {
	tr := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(tr, trace.ScopeDecl, name, "")
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestContextPropagation(t *testing.T) {
	if trace.FromContext(context.Background()) != trace.Nop {
		t.Fatalf("expected Nop tracer by default")
	}
	tr := trace.NewRingTracer(4, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), tr)
	if trace.FromContext(ctx) != trace.Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "stage", "detail", "debug"} {
		lvl, err := trace.ParseLevel(s)
		if err != nil || lvl.String() != s {
			t.Errorf("ParseLevel(%q) = %v, %v", s, lvl, err)
		}
	}
	if _, err := trace.ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestStartNestsUnderActiveSpan(t *testing.T) {
	tr := trace.NewRingTracer(16, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), tr)
	ctx, stage := trace.Start(ctx, trace.ScopeStage, "lower")
	_, unit := trace.Start(ctx, trace.ScopeUnit, "src/a.kt")
	unit.Fail(errors.New("boom")).End("ok")
	stage.Count("units", 1).End("")

	snap := tr.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("events = %+v", snap)
	}
	if snap[1].ParentID != stage.ID() || snap[2].Detail != "failed: boom" {
		t.Fatalf("unit events = %+v %+v", snap[1], snap[2])
	}
	if snap[3].Extra["units"] != "1" {
		t.Fatalf("stage extra = %v", snap[3].Extra)
	}

	_, decl := trace.Start(ctx, trace.ScopeDecl, "f")
	if decl.ID() != 0 || decl.End("") != 0 {
		t.Fatalf("decl scope should be filtered at detail level")
	}
}
