package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, ver, commit, msg, date string) {
	t.Helper()
	origVersion, origCommit, origMessage, origDate := Version, GitCommit, GitMessage, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = origVersion, origCommit, origMessage, origDate
	})
	Version, GitCommit, GitMessage, BuildDate = ver, commit, msg, date
}

func TestVersion_DefaultIsSemver(t *testing.T) {
	v, err := Parsed()
	if err != nil {
		t.Fatalf("default version: %v", err)
	}
	if v.Prerelease() != "dev" {
		t.Errorf("prerelease = %q, want dev", v.Prerelease())
	}
}

func TestBanner_Plain(t *testing.T) {
	override(t, "1.2.3", "abc123def4567890", "Fix enum lowering\n\nlong body", "2024-01-15T10:30:00Z")
	got := Banner(false)
	want := `kdart 1.2.3 (abc123def456 "Fix enum lowering") built 2024-01-15T10:30:00Z`
	if got != want {
		t.Errorf("Banner = %q, want %q", got, want)
	}
}

func TestBanner_Colored(t *testing.T) {
	override(t, "2.0.1-rc.1", "", "", "")
	got := Banner(true)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("prerelease lost: %q", got)
	}
}

func TestBanner_InvalidVersionIsPrintedAsIs(t *testing.T) {
	override(t, "nightly", "", "", "")
	if _, err := Parsed(); err == nil {
		t.Fatal("expected parse error")
	}
	if got := Banner(true); got != "kdart nightly" {
		t.Errorf("Banner = %q", got)
	}
}
