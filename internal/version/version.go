// Package version holds build information for the kdart CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI. It also salts output cache
	// keys, so it must change whenever generated code may change.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Parsed returns Version as a semantic version.
func Parsed() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("version %q: %w", Version, err)
	}
	return v, nil
}

// Banner renders the one-line version report of `kdart version`. With
// colored set, major, minor and patch are highlighted.
func Banner(colored bool) string {
	paint := func(c *color.Color, s string) string {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(s)
	}
	ver := Version
	if v, err := Parsed(); err == nil {
		ver = paint(color.New(color.FgYellow, color.Bold), fmt.Sprint(v.Major())) + "." +
			paint(color.New(color.FgGreen, color.Bold), fmt.Sprint(v.Minor())) + "." +
			paint(color.New(color.FgBlue, color.Bold), fmt.Sprint(v.Patch()))
		if pre := v.Prerelease(); pre != "" {
			ver += "-" + pre
		}
		if meta := v.Metadata(); meta != "" {
			ver += "+" + meta
		}
	}

	var b strings.Builder
	b.WriteString("kdart " + ver)
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&b, " (%s", commit)
		if GitMessage != "" {
			fmt.Fprintf(&b, " %q", firstLine(GitMessage))
		}
		b.WriteString(")")
	}
	if BuildDate != "" {
		b.WriteString(" built " + BuildDate)
	}
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
