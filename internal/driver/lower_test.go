package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"kdart/internal/diag"
	"kdart/internal/driver"
	"kdart/internal/ir"
	"kdart/internal/observ"
	"kdart/internal/source"
	"kdart/internal/testkit"
)

func loadAll(t *testing.T, paths ...string) []*driver.UnitFile {
	t.Helper()
	bag := diag.NewBag(0)
	files := driver.LoadUnits(paths, source.NewFileSet(), bag)
	if bag.HasErrors() {
		t.Fatalf("load: %+v", bag.Items())
	}
	return files
}

func brokenUnit() *ir.Unit {
	main := testkit.Func("main", testkit.TUnit, nil, testkit.Do(testkit.Return("elsewhere", nil)))
	main.Span = source.Span{Start: 4, End: 8}
	u := testkit.NewUnit("app", "broken", ir.FuncDecl(main))
	u.Path = "src/broken.kt"
	return u
}

func TestLowerUnitsKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d"} {
		fn := testkit.Func("f"+name, testkit.TInt, nil, testkit.Do(testkit.Return("f"+name, testkit.Int(1))))
		paths = append(paths, writeUnit(t, dir, name+".kir", testkit.NewUnit("app", name, ir.FuncDecl(fn))))
	}
	files := loadAll(t, paths...)

	var mu sync.Mutex
	var events []driver.PhaseEvent
	timer := observ.NewTimer()
	results, err := driver.LowerUnits(context.Background(), files, driver.LowerOptions{
		Jobs:  2,
		Timer: timer,
		Observer: func(ev driver.PhaseEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, ev)
		},
	})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	for i, name := range []string{"a", "b", "c", "d"} {
		r := results[i]
		if r.Err != nil {
			t.Fatalf("%s: %v", name, r.Err)
		}
		want := "int f" + name + "() {\n  return 1;\n}\n"
		if string(r.Text) != want {
			t.Fatalf("%s: got %q, want %q", name, r.Text, want)
		}
	}
	if len(timer.Report().Units) != 4 {
		t.Fatalf("timer units = %+v", timer.Report().Units)
	}
	ends := 0
	for _, ev := range events {
		if ev.Name == driver.PhasePrint && ev.Status == driver.PhaseEnd {
			ends++
		}
	}
	if ends != 4 {
		t.Fatalf("print end events = %d, want 4", ends)
	}
}

func TestLowerUnitsUsesCache(t *testing.T) {
	dir := t.TempDir()
	files := loadAll(t, writeUnit(t, dir, "math.kir", twice()))
	cache, err := driver.OpenCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := driver.LowerOptions{Cache: cache, ToolVersion: "test"}

	first, err := driver.LowerUnits(context.Background(), files, opts)
	if err != nil || first[0].Err != nil || first[0].Cached {
		t.Fatalf("first run: %v %+v", err, first[0])
	}
	second, err := driver.LowerUnits(context.Background(), files, opts)
	if err != nil || second[0].Err != nil {
		t.Fatalf("second run: %v %+v", err, second[0])
	}
	if !second[0].Cached || string(second[0].Text) != string(first[0].Text) {
		t.Fatalf("expected identical cached output, got %+v", second[0])
	}
}

func TestLowerUnitsReportsImportedSymbols(t *testing.T) {
	dir := t.TempDir()
	math := twice()
	fn := math.Decls[0].Data.(*ir.Func)
	call := testkit.Call(fn.Symbol(math.Library, math.Path), nil, testkit.TInt, testkit.Int(2))
	user := testkit.NewUnit("app", "user", ir.FuncDecl(testkit.Func("main", testkit.TUnit, nil, testkit.Do(call))))
	files := loadAll(t, writeUnit(t, dir, "math.kir", math), writeUnit(t, dir, "user.kir", user))

	results, err := driver.LowerUnits(context.Background(), files, driver.LowerOptions{})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if results[0].Imports != nil {
		t.Fatalf("math imports = %v", results[0].Imports)
	}
	got := results[1].Imports[testkit.Library("math")]
	if len(got) != 1 || got[0] != "twice" {
		t.Fatalf("user imports = %v", results[1].Imports)
	}
}

func TestReportResultsRemapsSpans(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "broken.kt"), []byte("fun main() = return@elsewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	files := loadAll(t, writeUnit(t, root, "broken.kir", brokenUnit()))
	results, err := driver.LowerUnits(context.Background(), files, driver.LowerOptions{})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if results[0].Err == nil || results[0].Text != nil {
		t.Fatalf("expected failure without output, got %+v", results[0])
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	driver.ReportResults(results, root, fs, bag)
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.LowMalformedInput || !strings.Contains(d.Message, "elsewhere") {
		t.Fatalf("diagnostic = %+v", d)
	}
	f := fs.Get(d.Primary.File)
	if f == nil || !strings.HasSuffix(f.Path, "src/broken.kt") || len(f.Content) == 0 {
		t.Fatalf("primary span not remapped to the source file: %+v", f)
	}
}

func TestWriteOutputsSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	files := loadAll(t, writeUnit(t, dir, "math.kir", twice()))
	results, err := driver.LowerUnits(context.Background(), files, driver.LowerOptions{})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	out := filepath.Join(dir, "gen")
	bag := diag.NewBag(0)

	stats := driver.WriteOutputs(results, out, source.NewFileSet(), bag, nil)
	if stats.Written != 1 || bag.Len() != 0 {
		t.Fatalf("stats = %+v, diags = %+v", stats, bag.Items())
	}
	data, err := os.ReadFile(filepath.Join(out, "math.dt.g.dart"))
	if err != nil || !strings.Contains(string(data), "int twice(int x)") {
		t.Fatalf("output: %v\n%s", err, data)
	}
	stats = driver.WriteOutputs(results, out, source.NewFileSet(), bag, nil)
	if stats.Written != 0 || stats.Unchanged != 1 {
		t.Fatalf("second write stats = %+v", stats)
	}
}

func TestAppendTimingDiagnosticIgnoresLimit(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LowMalformedInput, source.NoSpan, "first"))
	timer := observ.NewTimer()
	timer.End(timer.Begin("lower"), "")
	driver.AppendTimingDiagnostic(bag, "build/kir", timer.Report(), 5)
	if bag.Len() != 2 {
		t.Fatalf("len = %d", bag.Len())
	}
	d := bag.Items()[1]
	if d.Code != diag.ObsTimings || len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"phases"`) {
		t.Fatalf("timing diagnostic = %+v", d)
	}
}
