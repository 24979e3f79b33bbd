package testkit_test

import (
	"strings"
	"testing"

	"kdart/internal/ir"
	"kdart/internal/source"
	"kdart/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	c := testkit.Class("app", "Box")
	c.Span = source.Span{Start: 10, End: 50}
	fn := testkit.Func("size", testkit.TInt, nil)
	fn.Span = source.Span{Start: 20, End: 30}
	c.Members = append(c.Members, ir.FuncDecl(fn))
	unit := testkit.NewUnit("app", "box", ir.ClassDecl(c))

	if err := testkit.CheckSpanInvariants(unit, 60); err != nil {
		t.Fatalf("valid unit: %v", err)
	}
	if err := testkit.CheckSpanInvariants(unit, 40); err == nil || !strings.Contains(err.Error(), "beyond content") {
		t.Fatalf("expected end-of-file failure, got %v", err)
	}

	fn.Span = source.Span{Start: 5, End: 30}
	err := testkit.CheckSpanInvariants(unit, 60)
	if err == nil || !strings.Contains(err.Error(), "outside enclosing span") {
		t.Fatalf("expected containment failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "app.Box") {
		t.Fatalf("error should name the class: %v", err)
	}
}

func TestSynthesizedSpansAreSkipped(t *testing.T) {
	c := testkit.Class("app", "Box", ir.FuncDecl(testkit.Func("size", testkit.TInt, nil)))
	if err := testkit.CheckSpanInvariants(testkit.NewUnit("app", "box", ir.ClassDecl(c)), 0); err != nil {
		t.Fatalf("synthesized unit: %v", err)
	}
}
