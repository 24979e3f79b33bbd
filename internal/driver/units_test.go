package driver_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kdart/internal/diag"
	"kdart/internal/driver"
	"kdart/internal/ir"
	"kdart/internal/source"
	"kdart/internal/testkit"
)

func writeUnit(t *testing.T, dir, name string, u *ir.Unit) string {
	t.Helper()
	data, err := ir.EncodeUnit(u)
	if err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func twice() *ir.Unit {
	fn := testkit.Func("twice", testkit.TInt, testkit.Params(testkit.Param("x", testkit.TInt)),
		testkit.Do(testkit.Return("twice", testkit.Bin(ir.BinMul, testkit.Get("x", testkit.TInt), testkit.Int(2), testkit.TInt))))
	return testkit.NewUnit("app", "math", ir.FuncDecl(fn))
}

func TestListUnitsSorted(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "b.kir", twice())
	writeUnit(t, dir, "a/z.kir", twice())
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	files, err := driver.ListUnits(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || !strings.HasSuffix(files[0], "z.kir") || !strings.HasSuffix(files[1], "b.kir") {
		t.Fatalf("files = %v", files)
	}
}

func TestLoadUnitsReportsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeUnit(t, dir, "good.kir", twice())
	bad := filepath.Join(dir, "bad.kir")
	if err := os.WriteFile(bad, []byte("not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.kir")

	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	files := driver.LoadUnits([]string{bad, good, missing}, fs, bag)
	if len(files) != 1 || files[0].Source != good || files[0].Unit.Path != "math" {
		t.Fatalf("files = %+v", files)
	}
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %+v", items)
	}
	if items[0].Code != diag.IODecodeFailure || items[1].Code != diag.IOLoadFailure {
		t.Fatalf("codes = %v, %v", items[0].Code, items[1].Code)
	}
}

func TestLoadUnitsRejectsDuplicateLibrary(t *testing.T) {
	dir := t.TempDir()
	a := writeUnit(t, dir, "a.kir", twice())
	b := writeUnit(t, dir, "b.kir", twice())
	bag := diag.NewBag(0)
	files := driver.LoadUnits([]string{a, b}, source.NewFileSet(), bag)
	if len(files) != 1 || bag.Len() != 1 || bag.Items()[0].Code != diag.LowNameCollision {
		t.Fatalf("files=%d diags=%+v", len(files), bag.Items())
	}
	if notes := bag.Items()[0].Notes; len(notes) != 1 || notes[0].Msg != "first produced here" {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		unit *ir.Unit
		want string
	}{
		{&ir.Unit{Path: "src/counter.kt", Library: "package:demo/counter.dt.g.dart"}, "out/counter.dt.g.dart"},
		{&ir.Unit{Path: "src/deep/a.kt", Library: "package:demo/deep/a.dt.g.dart"}, "out/deep/a.dt.g.dart"},
		{&ir.Unit{Path: "src/main.kt"}, "out/src/main.dt.g.dart"},
	}
	for _, tt := range tests {
		got := filepath.ToSlash(driver.OutputPath("out", tt.unit))
		if got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.unit.Library, got, tt.want)
		}
	}
}
