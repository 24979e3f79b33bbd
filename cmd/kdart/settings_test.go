package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kdart/internal/diag"
	"kdart/internal/project"
	"kdart/internal/source"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveSettingsDefaultsWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := resolveSettings(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.root != dir || s.out != filepath.Join(dir, project.DefaultOut) {
		t.Fatalf("settings = %+v", s)
	}
	if len(s.inputs) != 1 || s.inputs[0] != filepath.Join(dir, project.DefaultSource) {
		t.Fatalf("inputs = %v", s.inputs)
	}
}

func TestResolveSettingsFromManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, project.ManifestName),
		"[package]\nname = \"shapes\"\n\n[build]\nsource = \"ir\"\nout = \"lib/src\"\ncache = \"off\"\njobs = 3\n")
	s, err := resolveSettings(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.pkg != "shapes" || s.jobs != 3 || s.cacheDir != "" {
		t.Fatalf("settings = %+v", s)
	}
	if s.inputs[0] != filepath.Join(root, "ir") || s.out != filepath.Join(root, "lib", "src") {
		t.Fatalf("paths = %v %s", s.inputs, s.out)
	}
	header := s.header()
	if len(header) != 2 || header[1] != "Package: shapes" {
		t.Fatalf("header = %v", header)
	}

	unit := filepath.Join(root, "ir", "a.kir")
	writeFile(t, unit, "x")
	if err := s.applyArgs([]string{unit}, filepath.Join(root, "gen"), 8, true); err != nil {
		t.Fatalf("applyArgs: %v", err)
	}
	if s.inputs[0] != unit || s.jobs != 8 || s.out != filepath.Join(root, "gen") {
		t.Fatalf("overridden = %+v", s)
	}
	if err := s.applyArgs([]string{filepath.Join(root, "missing.kir")}, "", 0, false); err == nil {
		t.Fatal("expected missing input to fail")
	}
}

func TestManifestErrorsBecomeDiagnostics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, project.ManifestName), "[package]\nname = \"app\"\n\n[dart]\nsdk = \"2.10.0\"\n")
	_, err := resolveSettings(root)
	var cfgErr *configError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configError, got %v", err)
	}
	if !errors.Is(err, project.ErrSDKUnsupported) {
		t.Fatalf("expected ErrSDKUnsupported in chain: %v", err)
	}
	items := cfgErr.bag.Items()
	if len(items) != 1 || items[0].Code != diag.ProjSDKUnsupported {
		t.Fatalf("diagnostics = %+v", items)
	}

	var buf bytes.Buffer
	if err := writeDiagnostics(&buf, cfgErr.bag, cfgErr.fs, "short", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), project.ManifestName) || !strings.Contains(buf.String(), "PRJ2002") {
		t.Fatalf("short output = %q", buf.String())
	}
}

func TestFormatPathForOutput(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work", "app")
	if got := formatPathForOutput(root, filepath.Join(root, "lib", "a.dart")); got != "lib/a.dart" {
		t.Fatalf("inside root: %q", got)
	}
	outside := filepath.Join(string(filepath.Separator), "tmp", "b.dart")
	if got := formatPathForOutput(root, outside); got != outside {
		t.Fatalf("outside root: %q", got)
	}
}

func TestWriteDiagnosticsRejectsUnknownFormat(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.ProjNoUnits, source.NoSpan, "none"))
	if err := writeDiagnostics(&bytes.Buffer{}, bag, nil, "xml", false); err == nil {
		t.Fatal("expected error for xml")
	}
}
