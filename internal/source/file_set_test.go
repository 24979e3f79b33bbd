package source

import (
	"testing"
)

func TestFileSetAddIsIdempotentPerPath(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("src/a.kt", []byte("fun a() {}\n"), 0)
	id2 := fs.Add("src/./a.kt", []byte("other"), 0)
	if id1 != id2 {
		t.Fatalf("expected same id for same path, got %d and %d", id1, id2)
	}
	if fs.Len() != 1 {
		t.Fatalf("expected 1 file, got %d", fs.Len())
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.kt", []byte("ab\ncd\nef"), 0)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{7, LineCol{3, 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestAddLinesWithoutContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddLines("gen/b.kt", []uint32{4, 9})
	start, _ := fs.Resolve(Span{File: id, Start: 6, End: 7})
	if start.Line != 2 || start.Col != 2 {
		t.Fatalf("unexpected position %+v", start)
	}
	if got := fs.Get(id).GetLine(1); got != "" {
		t.Fatalf("expected empty line without content, got %q", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.kt", []byte("first\nsecond\nthird"), 0)
	f := fs.Get(id)
	if got := f.GetLine(2); got != "second" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Fatalf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine(9) = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 12}
	b := Span{File: 1, Start: 4, End: 11}
	if got := a.Cover(b); got.Start != 4 || got.End != 12 {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cross-file Cover changed span: %v", got)
	}
}
