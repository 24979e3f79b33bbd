package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"kdart/internal/diag"
	"kdart/internal/format"
	"kdart/internal/ir"
	"kdart/internal/lower"
	"kdart/internal/observ"
	"kdart/internal/project"
	"kdart/internal/source"
	"kdart/internal/trace"
)

// LowerOptions configures LowerUnits.
type LowerOptions struct {
	// Jobs caps the number of units lowered at once; 0 means GOMAXPROCS.
	Jobs        int
	Cache       *Cache
	ToolVersion string
	Format      format.Options
	Timer       *observ.Timer
	Observer    PhaseObserver
}

// UnitResult is the outcome of lowering and printing one unit.
type UnitResult struct {
	File *UnitFile
	Text []byte
	// Imports maps each imported library URI to the symbols shown from it.
	Imports  map[string][]string
	Diamonds []lower.Diamond
	Cached   bool
	// Err is the lowering or printing failure; the unit has no output then.
	Err error
	// CacheErr is a cache read or write problem. The unit was still lowered.
	CacheErr error
}

// LowerUnits lowers and prints every file in parallel. Results keep the
// order of files. The returned error is only set on cancellation.
func LowerUnits(ctx context.Context, files []*UnitFile, opts LowerOptions) ([]UnitResult, error) {
	results := make([]UnitResult, len(files))
	if len(files) == 0 {
		return results, nil
	}
	units := make([]*ir.Unit, len(files))
	for i, f := range files {
		units[i] = f.Unit
	}
	index := ir.NewIndex(&ir.Program{Units: units})
	program := ProgramDigest(files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, f := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален, мьютекс не нужен
			results[i] = lowerOne(gctx, f, index, program, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func lowerOne(ctx context.Context, f *UnitFile, index *ir.Index, program project.Digest, opts *LowerOptions) UnitResult {
	res := UnitResult{File: f}
	ctx, span := trace.Start(ctx, trace.ScopeUnit, f.Unit.Path)
	start := time.Now()
	opts.Observer.notify(PhaseEvent{Name: PhaseLower, File: f.Source, Status: PhaseStart})
	defer func() {
		elapsed := time.Since(start)
		opts.Timer.RecordUnit(f.Unit.Path, elapsed)
		status, detail := PhaseEnd, "ok"
		if res.Err != nil {
			status = PhaseFailed
			span.Fail(res.Err)
		} else if res.Cached {
			detail = "cached"
		}
		span.End(detail)
		opts.Observer.notify(PhaseEvent{Name: PhasePrint, File: f.Source, Status: status, Elapsed: elapsed, Cached: res.Cached, Err: res.Err})
	}()

	key := CacheKey(f.Digest, program, opts.ToolVersion)
	if opts.Cache != nil {
		entry, ok, err := opts.Cache.Get(key)
		if err != nil {
			res.CacheErr = err
		} else if ok {
			res.Text, res.Imports, res.Cached = entry.Text, entry.Imports, true
			return res
		}
	}

	lowered, err := lower.Lower(f.Unit, index)
	if err != nil {
		res.Err = err
		return res
	}
	opts.Observer.notify(PhaseEvent{Name: PhasePrint, File: f.Source, Status: PhaseStart, Elapsed: time.Since(start)})
	text, err := format.Library(lowered.Library, opts.Format)
	if err != nil {
		res.Err = fmt.Errorf("print %s: %w", f.Unit.Path, err)
		return res
	}
	res.Text = text
	res.Diamonds = lowered.Diamonds
	tracer := trace.FromContext(ctx)
	for _, d := range lowered.Diamonds {
		trace.Point(tracer, trace.ScopeDecl, "diamond "+d.Class+"."+d.Member, "chosen "+d.Chosen)
	}
	if len(lowered.Library.Directives) > 0 {
		res.Imports = make(map[string][]string, len(lowered.Library.Directives))
		for _, d := range lowered.Library.Directives {
			res.Imports[d.URI] = d.Show
		}
	}
	if opts.Cache != nil {
		entry := &CacheEntry{Unit: f.Unit.Path, Text: text, Imports: res.Imports}
		if err := opts.Cache.Put(key, entry); err != nil && res.CacheErr == nil {
			res.CacheErr = err
		}
	}
	return res
}

// ReportResults moves unit failures into bag. Lowering spans are relative to
// the unit's source file, which is loaded from root so diagnostics can show it.
func ReportResults(results []UnitResult, root string, fileSet *source.FileSet, bag *diag.Bag) {
	reporter := diag.BagReporter{Bag: bag}
	for i := range results {
		r := &results[i]
		if r.CacheErr != nil {
			diag.ReportWarning(reporter, diag.IOCacheCorrupt, fileSpan(fileSet, r.File.Source),
				fmt.Sprintf("ignoring output cache: %v", r.CacheErr)).Emit()
		}
		if r.Err == nil {
			continue
		}
		var lerr *lower.Error
		if errors.As(r.Err, &lerr) {
			d := lerr.Diagnostic()
			d.Primary = d.Primary.InFile(sourceFile(fileSet, root, r.File.Unit))
			d = d.WithNote(fileSpan(fileSet, r.File.Source), "while lowering "+r.File.Unit.Path)
			bag.Add(d)
			continue
		}
		diag.ReportError(reporter, diag.LowMalformedInput, fileSpan(fileSet, r.File.Source), r.Err.Error()).Emit()
	}
}

func sourceFile(fileSet *source.FileSet, root string, u *ir.Unit) source.FileID {
	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}
	return fileSet.Load(path)
}
