package diag_test

import (
	"testing"

	"kdart/internal/diag"
	"kdart/internal/source"
)

func TestBagSortAndDedup(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.LowNameCollision, source.Span{File: 1, Start: 5, End: 6}, "b").Emit()
	diag.ReportError(r, diag.LowAmbiguousMemberKind, source.Span{File: 0, Start: 9, End: 10}, "a").Emit()
	diag.ReportError(r, diag.LowAmbiguousMemberKind, source.Span{File: 0, Start: 9, End: 10}, "a").Emit()

	bag.Sort()
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.LowAmbiguousMemberKind {
		t.Fatalf("unexpected first diagnostic: %+v", bag.Items()[0])
	}
	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
}

func TestBagLimit(t *testing.T) {
	bag := diag.NewBag(1)
	if !bag.Add(diag.NewError(diag.IOLoadFailure, source.Span{}, "x")) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(diag.NewError(diag.IOLoadFailure, source.Span{}, "y")) {
		t.Fatalf("second add must be rejected")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/proj")
	id := fs.Add("/proj/src/a.kt", []byte("class A\nclass B : I, J\n"), 0)
	d := diag.NewError(diag.LowAmbiguousMemberKind, source.Span{File: id, Start: 14, End: 15}, "member m\nis ambiguous").
		WithNote(source.Span{File: id, Start: 0, End: 1}, "declared here")

	got := diag.FormatShort([]diag.Diagnostic{d}, fs, true)
	want := "note LOW4002 src/a.kt:1:1 declared here\nerror LOW4002 src/a.kt:2:7 member m is ambiguous"
	if got != want {
		t.Fatalf("FormatShort mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[diag.Code]string{
		diag.IOLoadFailure:           "IO1001",
		diag.ProjConfigInvalid:       "PRJ2001",
		diag.LowUnsupportedConstruct: "LOW4001",
		diag.UnknownCode:             "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
