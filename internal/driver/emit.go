package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kdart/internal/diag"
	"kdart/internal/source"
)

// WriteStats counts what WriteOutputs did.
type WriteStats struct {
	Written   int
	Unchanged int
	Failed    int
}

// WriteOutputs writes the text of every successful result under outDir.
// Files whose content is already current are left untouched.
func WriteOutputs(results []UnitResult, outDir string, fileSet *source.FileSet, bag *diag.Bag, observer PhaseObserver) WriteStats {
	var stats WriteStats
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Text == nil {
			continue
		}
		start := time.Now()
		path := OutputPath(outDir, r.File.Unit)
		observer.notify(PhaseEvent{Name: PhaseWrite, File: r.File.Source, Status: PhaseStart})
		changed, err := writeIfChanged(path, r.Text)
		if err != nil {
			stats.Failed++
			bag.Add(diag.NewError(diag.IOWriteFailure, fileSpan(fileSet, r.File.Source), fmt.Sprintf("write %s: %v", path, err)))
			observer.notify(PhaseEvent{Name: PhaseWrite, File: r.File.Source, Status: PhaseFailed, Elapsed: time.Since(start), Err: err})
			continue
		}
		if changed {
			stats.Written++
		} else {
			stats.Unchanged++
		}
		observer.notify(PhaseEvent{Name: PhaseWrite, File: r.File.Source, Status: PhaseEnd, Elapsed: time.Since(start), Cached: !changed})
	}
	return stats
}

func writeIfChanged(path string, content []byte) (bool, error) {
	// #nosec G304 -- path is derived from the output directory
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		return false, nil
	}
	if err := writeFileAtomic(path, content); err != nil {
		return false, err
	}
	return true, nil
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
