package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// MinDartSDK is the oldest Dart SDK the generated code targets.
const MinDartSDK = ">= 3.0.0"

// Default values for unset [build] keys.
const (
	DefaultSource = "build/kir"
	DefaultOut    = "lib/gen"
	DefaultCache  = ".kdart/cache"
)

// ErrInvalidConfig marks manifest problems the user has to fix.
var ErrInvalidConfig = errors.New("invalid project configuration")

// ErrSDKUnsupported marks a [dart].sdk below MinDartSDK. It wraps ErrInvalidConfig.
var ErrSDKUnsupported = fmt.Errorf("%w: unsupported Dart SDK", ErrInvalidConfig)

// Manifest is a decoded kdart.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of kdart.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Dart    DartConfig    `toml:"dart"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	// Source is the directory holding *.kir unit files.
	Source string `toml:"source"`
	// Out is the directory generated Dart libraries are written to.
	Out  string `toml:"out"`
	Jobs int    `toml:"jobs"`
	// Cache is the output cache directory; "off" disables it.
	Cache string `toml:"cache"`
}

type DartConfig struct {
	SDK string `toml:"sdk"`
}

// LoadManifest finds kdart.toml above startDir and decodes it.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates the manifest at path, filling defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: %w: unknown key %s", path, ErrInvalidConfig, undecoded[0])
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w: missing [package].name", path, ErrInvalidConfig)
	}
	cfg.Package.Name = strings.TrimSpace(cfg.Package.Name)
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: %w: [build].jobs must not be negative", path, ErrInvalidConfig)
	}
	if cfg.Build.Source == "" {
		cfg.Build.Source = DefaultSource
	}
	if cfg.Build.Out == "" {
		cfg.Build.Out = DefaultOut
	}
	if cfg.Build.Cache == "" {
		cfg.Build.Cache = DefaultCache
	}
	for _, dir := range []string{cfg.Build.Source, cfg.Build.Out, cfg.Build.Cache} {
		if dir != "off" && filepath.IsAbs(dir) {
			return Config{}, fmt.Errorf("%s: %w: %q must be relative to the project root", path, ErrInvalidConfig, dir)
		}
	}
	if meta.IsDefined("dart", "sdk") {
		if err := CheckDartSDK(cfg.Dart.SDK); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// CheckDartSDK validates the declared SDK version against MinDartSDK.
func CheckDartSDK(sdk string) error {
	v, err := semver.NewVersion(strings.TrimSpace(sdk))
	if err != nil {
		return fmt.Errorf("%w: [dart].sdk %q: %w", ErrInvalidConfig, sdk, err)
	}
	floor, err := semver.NewConstraint(MinDartSDK)
	if err != nil {
		return err
	}
	if !floor.Check(v) {
		return fmt.Errorf("%w: [dart].sdk %s is older than the supported %s", ErrSDKUnsupported, v, MinDartSDK)
	}
	return nil
}

// Dir resolves a configured directory against the project root. An
// escaping path is rejected.
func (m *Manifest) Dir(rel string) (string, error) {
	dir := filepath.Join(m.Root, filepath.FromSlash(rel))
	if !pathWithin(m.Root, dir) {
		return "", fmt.Errorf("%s: %w: %q escapes the project root", m.Path, ErrInvalidConfig, rel)
	}
	return dir, nil
}
