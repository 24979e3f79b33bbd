package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"kdart/internal/diag"
	"kdart/internal/diagfmt"
	"kdart/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	content := []byte("interface A\n\tclass C : A, B {\n}\n")
	id := fs.Add("/home/user/project/src/shapes.kt", content, source.FileVirtual)

	bag := diag.NewBag(10)
	d := diag.NewError(diag.LowAmbiguousMemberKind, source.Span{File: id, Start: 19, End: 20}, "app.C inherits greet() from [app.A app.B] and must override it").
		WithNote(source.Span{File: id, Start: 0, End: 11}, "declared here")
	bag.Add(d)
	return bag, fs
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name     string
		mode     diagfmt.PathMode
		contains string
	}{
		{"absolute", diagfmt.PathModeAbsolute, "/home/user/project/src/shapes.kt:2:8"},
		{"relative", diagfmt.PathModeRelative, "src/shapes.kt:2:8"},
		{"basename", diagfmt.PathModeBasename, "shapes.kt:2:8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: tt.mode})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("output lacks %q:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, ": ERROR LOW4002: app.C inherits") {
				t.Fatalf("missing header:\n%s", out)
			}
		})
	}
}

func TestPrettyCaretFollowsTabs(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeRelative})
	want := "2 | \tclass C : A, B {\n  | \t      ^\n"
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("output lacks %q:\n%s", want, buf.String())
	}
	if strings.Contains(buf.String(), "declared here") {
		t.Fatalf("notes should be hidden by default:\n%s", buf.String())
	}
}

func TestPrettyNotesAndContext(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeRelative, ShowNotes: true, Context: 1})
	out := buf.String()
	for _, want := range []string{
		"1 | interface A\n2 | \tclass C",
		"  note: src/shapes.kt:1:1: declared here\n",
		"1 | interface A\n  | ^~~~~~~~~~\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrettyWithoutContent(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddLines("gen/a.kt", []uint32{4})
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.LowNameCollision, source.Span{File: id, Start: 6, End: 8}, "clash"))
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})
	if got := buf.String(); got != "gen/a.kt:2:2: ERROR LOW4003: clash\n" {
		t.Fatalf("got %q", got)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: diagfmt.PathModeRelative})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "LOW4002" || d.Severity != "ERROR" || d.Title != "Ambiguous inherited member" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.File != "src/shapes.kt" || d.Location.StartLine != 2 || d.Location.StartCol != 8 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestSarifOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	meta := diagfmt.SarifRunMeta{ToolName: "kdart", ToolVersion: "0.1.0", InvocationArgs: []string{"build"}}
	if err := diagfmt.Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"version": "2.1.0"`,
		`"ruleId": "LOW4002"`,
		`"level": "error"`,
		`"uri": "src/shapes.kt"`,
		`"executionSuccessful": false`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %s:\n%s", want, out)
		}
	}
}
