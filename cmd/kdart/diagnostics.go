package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kdart/internal/diag"
	"kdart/internal/diagfmt"
	"kdart/internal/source"
	"kdart/internal/version"
)

// printDiagnostics renders bag to stderr in the requested format.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := cmd.ErrOrStderr()
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := colorEnabled(colorFlag, os.Stderr)
	if err != nil {
		return err
	}
	return writeDiagnostics(out, bag, fs, format, useColor)
}

func writeDiagnostics(out io.Writer, bag *diag.Bag, fs *source.FileSet, format string, useColor bool) error {
	switch strings.ToLower(format) {
	case "", "pretty":
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		})
		return nil
	case "short":
		_, err := io.WriteString(out, diag.FormatShort(bag.Items(), fs, true)+"\n")
		return err
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "kdart",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json|sarif)", format)
	}
}
