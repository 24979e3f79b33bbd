package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kdart/internal/diag"
	"kdart/internal/ir"
	"kdart/internal/project"
	"kdart/internal/source"
)

// UnitExt is the extension of encoded compilation units.
const UnitExt = ".kir"

// UnitFile is a decoded compilation unit together with where it came from.
type UnitFile struct {
	// Source is the path of the .kir file.
	Source string
	Unit   *ir.Unit
	// Digest hashes the encoded bytes.
	Digest project.Digest
}

// ListUnits returns every *.kir file under dir in sorted order. A path naming
// a single file is returned as is.
func ListUnits(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}
	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, UnitExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ReadUnit reads and decodes one unit file.
func ReadUnit(path string) (*UnitFile, error) {
	// #nosec G304 -- path comes from the build inputs
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	u, err := ir.DecodeUnit(data)
	if err != nil {
		return nil, &decodeError{err: err}
	}
	return &UnitFile{Source: path, Unit: u, Digest: project.HashBytes(data)}, nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// LoadUnits reads every path, reporting unreadable or undecodable files into
// bag. Units whose output library is claimed twice are reported and dropped.
func LoadUnits(paths []string, fileSet *source.FileSet, bag *diag.Bag) []*UnitFile {
	files := make([]*UnitFile, 0, len(paths))
	owners := make(map[string]string, len(paths))
	reporter := diag.BagReporter{Bag: bag}
	for _, path := range paths {
		f, err := ReadUnit(path)
		if err != nil {
			code := diag.IOLoadFailure
			var de *decodeError
			if errors.As(err, &de) {
				code = diag.IODecodeFailure
			}
			diag.ReportError(reporter, code, fileSpan(fileSet, path), fmt.Sprintf("%s: %v", path, err)).Emit()
			continue
		}
		if prev, dup := owners[f.Unit.Library]; dup {
			diag.ReportError(reporter, diag.LowNameCollision, fileSpan(fileSet, path),
				fmt.Sprintf("library %q is produced by both %s and %s", f.Unit.Library, prev, path)).
				WithNote(fileSpan(fileSet, prev), "first produced here").
				Emit()
			continue
		}
		owners[f.Unit.Library] = path
		files = append(files, f)
	}
	return files
}

// fileSpan points at the start of a file known only by name.
func fileSpan(fileSet *source.FileSet, path string) source.Span {
	if fileSet == nil {
		return source.NoSpan
	}
	return source.Span{File: fileSet.AddLines(path, nil)}
}

// ProgramDigest combines the digests of every unit in order. Lowering a unit
// reads the classes of the others, so cached output depends on all of them.
func ProgramDigest(files []*UnitFile) project.Digest {
	salts := make([]string, 0, len(files))
	for _, f := range files {
		salts = append(salts, f.Digest.Hex())
	}
	return project.Combine(project.HashBytes(nil), salts...)
}

// OutputPath maps a unit to its generated file under outDir. Units with a
// package: library URI land at the URI's path; others mirror their source path.
func OutputPath(outDir string, u *ir.Unit) string {
	if rest, ok := strings.CutPrefix(u.Library, "package:"); ok {
		if _, path, found := strings.Cut(rest, "/"); found && path != "" {
			return filepath.Join(outDir, filepath.FromSlash(path))
		}
	}
	rel := strings.TrimSuffix(u.Path, filepath.Ext(u.Path))
	return filepath.Join(outDir, filepath.FromSlash(rel)+".dt.g.dart")
}
