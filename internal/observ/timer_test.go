package observ_test

import (
	"strings"
	"testing"
	"time"

	"kdart/internal/observ"
)

func TestTimerReportOrdersUnitsBySlowest(t *testing.T) {
	tm := observ.NewTimer()
	idx := tm.Begin("lower")
	tm.RecordUnit("a.kir", 2*time.Millisecond)
	tm.RecordUnit("b.kir", 5*time.Millisecond)
	tm.End(idx, "2 units")

	rep := tm.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Note != "2 units" {
		t.Fatalf("unexpected phases: %+v", rep.Phases)
	}
	if len(rep.Units) != 2 || rep.Units[0].Name != "b.kir" {
		t.Fatalf("units must be sorted slowest first: %+v", rep.Units)
	}
	sum := tm.Summary(1)
	if !strings.Contains(sum, "slowest units:") || strings.Contains(sum, "a.kir") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}
