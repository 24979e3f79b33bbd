package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kdart/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"app\"\n\n[build]\njobs = 2\n\n[dart]\nsdk = \"3.4.1\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := project.LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	cfg := m.Config
	if cfg.Package.Name != "app" || cfg.Build.Jobs != 2 {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Build.Source != project.DefaultSource || cfg.Build.Out != project.DefaultOut || cfg.Build.Cache != project.DefaultCache {
		t.Fatalf("defaults not applied: %+v", cfg.Build)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, ok, err := project.LoadManifest(t.TempDir())
	if err != nil || ok {
		t.Fatalf("expected no manifest, got ok=%v err=%v", ok, err)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no name", "[build]\njobs = 1\n", "[package].name"},
		{"old sdk", "[package]\nname = \"app\"\n[dart]\nsdk = \"2.19.0\"\n", "older than"},
		{"bad sdk", "[package]\nname = \"app\"\n[dart]\nsdk = \"latest\"\n", "[dart].sdk"},
		{"unknown key", "[package]\nname = \"app\"\nflavor = \"x\"\n", "unknown key"},
		{"negative jobs", "[package]\nname = \"app\"\n[build]\njobs = -1\n", "jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := project.LoadConfig(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, project.ErrInvalidConfig) {
				t.Fatalf("error %v does not wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q lacks %q", err, tt.want)
			}
		})
	}
}

func TestManifestDirRejectsEscape(t *testing.T) {
	m := &project.Manifest{Root: t.TempDir(), Path: "kdart.toml"}
	if _, err := m.Dir("../elsewhere"); err == nil {
		t.Fatalf("expected escaping dir to fail")
	}
	dir, err := m.Dir("lib/gen")
	if err != nil || dir != filepath.Join(m.Root, "lib", "gen") {
		t.Fatalf("Dir = %q, %v", dir, err)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	d := project.HashBytes([]byte("unit"))
	if project.Combine(d, "a", "b") == project.Combine(d, "b", "a") {
		t.Fatalf("salts should be order sensitive")
	}
	if project.Combine(d, "ab") == project.Combine(d, "a", "b") {
		t.Fatalf("salt boundaries should matter")
	}
	if len(d.Hex()) != 64 {
		t.Fatalf("hex length = %d", len(d.Hex()))
	}
}

func TestCheckDartSDK(t *testing.T) {
	if err := project.CheckDartSDK("3.4.1"); err != nil {
		t.Fatalf("3.4.1: %v", err)
	}
	err := project.CheckDartSDK("2.19.0")
	if !errors.Is(err, project.ErrSDKUnsupported) || !errors.Is(err, project.ErrInvalidConfig) {
		t.Fatalf("2.19.0: %v", err)
	}
	if err := project.CheckDartSDK("latest"); errors.Is(err, project.ErrSDKUnsupported) || !errors.Is(err, project.ErrInvalidConfig) {
		t.Fatalf("latest: %v", err)
	}
}
