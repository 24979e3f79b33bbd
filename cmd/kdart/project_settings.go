package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kdart/internal/diag"
	"kdart/internal/project"
	"kdart/internal/source"
)

// buildSettings is the merged view of kdart.toml and command line flags.
type buildSettings struct {
	root     string
	pkg      string
	inputs   []string
	out      string
	jobs     int
	cacheDir string // empty when the cache is disabled
	sdk      string
}

// configError carries a manifest problem as a diagnostic on kdart.toml.
type configError struct {
	bag *diag.Bag
	fs  *source.FileSet
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// resolveSettings reads kdart.toml above dir, if any. Without a manifest the
// working directory is the root and defaults apply.
func resolveSettings(dir string) (buildSettings, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return buildSettings{}, err
	}
	manifest, found, err := project.LoadManifest(abs)
	if err != nil {
		return buildSettings{}, manifestError(abs, err)
	}
	if !found {
		return buildSettings{
			root:     abs,
			inputs:   []string{filepath.Join(abs, project.DefaultSource)},
			out:      filepath.Join(abs, project.DefaultOut),
			cacheDir: filepath.Join(abs, project.DefaultCache),
		}, nil
	}

	cfg := manifest.Config
	s := buildSettings{root: manifest.Root, pkg: cfg.Package.Name, jobs: cfg.Build.Jobs, sdk: cfg.Dart.SDK}
	src, err := manifest.Dir(cfg.Build.Source)
	if err != nil {
		return s, manifestError(abs, err)
	}
	s.inputs = []string{src}
	if s.out, err = manifest.Dir(cfg.Build.Out); err != nil {
		return s, manifestError(abs, err)
	}
	if cfg.Build.Cache != "off" {
		if s.cacheDir, err = manifest.Dir(cfg.Build.Cache); err != nil {
			return s, manifestError(abs, err)
		}
	}
	return s, nil
}

func manifestError(dir string, err error) error {
	fs := source.NewFileSet()
	span := source.NoSpan
	if path, ok, findErr := project.FindManifest(dir); findErr == nil && ok {
		fs.SetBaseDir(filepath.Dir(path))
		span = source.Span{File: fs.Load(path)}
	}
	code := diag.ProjConfigInvalid
	if errors.Is(err, project.ErrSDKUnsupported) {
		code = diag.ProjSDKUnsupported
	}
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(code, span, err.Error()))
	return &configError{bag: bag, fs: fs, err: err}
}

// applyArgs lets positional arguments and flags override the manifest.
func (s *buildSettings) applyArgs(args []string, out string, jobs int, noCache bool) error {
	if len(args) > 0 {
		s.inputs = s.inputs[:0]
		for _, a := range args {
			abs, err := filepath.Abs(a)
			if err != nil {
				return err
			}
			if _, err := os.Stat(abs); err != nil {
				return fmt.Errorf("input %s: %w", a, err)
			}
			s.inputs = append(s.inputs, abs)
		}
	}
	if out != "" {
		abs, err := filepath.Abs(out)
		if err != nil {
			return err
		}
		s.out = abs
	}
	if jobs > 0 {
		s.jobs = jobs
	}
	if noCache {
		s.cacheDir = ""
	}
	return nil
}

// header is written at the top of every generated library.
func (s *buildSettings) header() []string {
	lines := []string{"GENERATED CODE - DO NOT MODIFY BY HAND"}
	if s.pkg != "" {
		lines = append(lines, "Package: "+s.pkg)
	}
	return lines
}
