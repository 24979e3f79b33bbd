package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kdart/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the kdart output cache",
	Long:  "Remove the cache directory configured by build.cache in kdart.toml.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	settings, err := resolveSettings(base)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if settings.cacheDir == "" {
		_, _ = fmt.Fprintln(out, "cache disabled")
		return nil
	}
	info, err := os.Stat(settings.cacheDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_, _ = fmt.Fprintln(out, "cache directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", settings.cacheDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", settings.cacheDir)
	}
	cache, err := driver.OpenCache(settings.cacheDir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", settings.cacheDir, err)
	}
	_, _ = fmt.Fprintf(out, "cleared %s\n", formatPathForOutput(settings.root, settings.cacheDir))
	return nil
}
