// Package buildpipeline orchestrates a build: loading unit files, lowering
// and printing them in parallel, and writing the generated Dart files.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kdart/internal/diag"
	"kdart/internal/driver"
	"kdart/internal/format"
	"kdart/internal/observ"
	"kdart/internal/source"
	"kdart/internal/trace"
)

// Request configures one build.
type Request struct {
	// Inputs are directories searched for *.kir files, or unit files.
	Inputs []string
	// BaseDir is the project root. Unit source paths resolve against it and
	// progress output names files relative to it.
	BaseDir        string
	OutDir         string
	Jobs           int
	Cache          *driver.Cache
	ToolVersion    string
	MaxDiagnostics int
	Format         format.Options
	Progress       ProgressSink
	Timer          *observ.Timer
}

// Result captures what a build produced. Bag holds every diagnostic; a build
// with errors in Bag still writes the units that succeeded.
type Result struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Units   []driver.UnitResult
	Files   []string
	Stats   driver.WriteStats
	Timings Timings
}

// ListInputs expands req.Inputs into the sorted list of unit files.
func ListInputs(inputs []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, in := range inputs {
		listed, err := driver.ListUnits(in)
		if err != nil {
			return nil, fmt.Errorf("list units in %s: %w", in, err)
		}
		for _, f := range listed {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files, nil
}

// Build runs the whole pipeline.
func Build(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("missing build request")
	}
	if len(req.Inputs) == 0 {
		return nil, errors.New("no inputs")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timer := req.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(req.BaseDir)
	res := &Result{FileSet: fileSet, Bag: diag.NewBag(req.MaxDiagnostics)}

	ctx, root := trace.Start(ctx, trace.ScopeDriver, "build")
	defer root.End("")

	// load
	stageStart := time.Now()
	phase := timer.Begin(string(StageLoad))
	_, span := trace.Start(ctx, trace.ScopeStage, string(StageLoad))
	paths, err := ListInputs(req.Inputs)
	if err != nil {
		timer.End(phase, "failed")
		span.Fail(err).End("")
		emitStage(req.Progress, StageLoad, StatusError, err, time.Since(stageStart))
		return res, err
	}
	names := displayNames(paths, req.BaseDir)
	res.Files = normalizeProgressFiles(paths, req.BaseDir)
	emitQueued(req.Progress, res.Files)
	emitStage(req.Progress, StageLoad, StatusWorking, nil, 0)

	files := driver.LoadUnits(paths, fileSet, res.Bag)
	loaded := make(map[string]bool, len(files))
	for _, f := range files {
		loaded[f.Source] = true
	}
	for _, p := range paths {
		if !loaded[p] {
			emitFile(req.Progress, names[p], StageLoad, StatusError, errors.New("failed to load"), 0)
		}
	}
	timer.End(phase, fmt.Sprintf("%d units", len(files)))
	span.Count("units", len(files)).Count("failed", len(paths)-len(files)).End("")
	res.Timings.Set(StageLoad, time.Since(stageStart))
	emitStage(req.Progress, StageLoad, StatusDone, nil, time.Since(stageStart))
	if len(paths) == 0 {
		res.Bag.Add(diag.NewError(diag.ProjNoUnits, source.NoSpan, fmt.Sprintf("no %s files found in %v", driver.UnitExt, req.Inputs)))
		return res, nil
	}
	if len(files) == 0 {
		return res, nil
	}

	// lower + print
	stageStart = time.Now()
	phase = timer.Begin(string(StageLower))
	lowerCtx, span := trace.Start(ctx, trace.ScopeStage, string(StageLower))
	emitStage(req.Progress, StageLower, StatusWorking, nil, 0)
	results, err := driver.LowerUnits(lowerCtx, files, driver.LowerOptions{
		Jobs:        req.Jobs,
		Cache:       req.Cache,
		ToolVersion: req.ToolVersion,
		Format:      req.Format,
		Timer:       timer,
		Observer:    progressObserver(req.Progress, names),
	})
	res.Units = results
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
	}
	timer.End(phase, fmt.Sprintf("%d units, %d cached", len(results), cached))
	span.Count("units", len(results)).Count("cached", cached).Fail(err).End("")
	res.Timings.Set(StageLower, time.Since(stageStart))
	if err != nil {
		emitStage(req.Progress, StageLower, StatusError, err, time.Since(stageStart))
		return res, err
	}
	driver.ReportResults(results, req.BaseDir, fileSet, res.Bag)
	emitStage(req.Progress, StagePrint, StatusDone, nil, time.Since(stageStart))

	// write
	stageStart = time.Now()
	phase = timer.Begin(string(StageWrite))
	_, span = trace.Start(ctx, trace.ScopeStage, string(StageWrite))
	emitStage(req.Progress, StageWrite, StatusWorking, nil, 0)
	res.Stats = driver.WriteOutputs(results, req.OutDir, fileSet, res.Bag, progressObserver(req.Progress, names))
	timer.End(phase, fmt.Sprintf("%d written, %d unchanged", res.Stats.Written, res.Stats.Unchanged))
	span.Count("written", res.Stats.Written).Count("unchanged", res.Stats.Unchanged).End("")
	res.Timings.Set(StageWrite, time.Since(stageStart))
	emitStage(req.Progress, StageWrite, StatusDone, nil, time.Since(stageStart))

	res.Bag.Sort()
	res.Bag.Dedup()
	return res, nil
}

// progressObserver turns driver phase events into file progress events.
func progressObserver(sink ProgressSink, names map[string]string) driver.PhaseObserver {
	if sink == nil {
		return nil
	}
	return func(ev driver.PhaseEvent) {
		file := names[ev.File]
		stage := stageOf(ev.Name)
		switch ev.Status {
		case driver.PhaseStart:
			emitFile(sink, file, stage, StatusWorking, nil, ev.Elapsed)
		case driver.PhaseFailed:
			emitFile(sink, file, stage, StatusError, ev.Err, ev.Elapsed)
		case driver.PhaseEnd:
			switch {
			case stage == StageWrite:
				emitFile(sink, file, stage, StatusDone, nil, ev.Elapsed)
			case ev.Cached:
				emitFile(sink, file, stage, StatusCached, nil, ev.Elapsed)
			}
		}
	}
}

func stageOf(phase string) Stage {
	switch phase {
	case driver.PhaseLower:
		return StageLower
	case driver.PhasePrint:
		return StagePrint
	case driver.PhaseWrite:
		return StageWrite
	default:
		return StageLoad
	}
}
