package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kdart/internal/buildpipeline"
	"kdart/internal/driver"
	"kdart/internal/format"
	"kdart/internal/observ"
	"kdart/internal/ui"
	"kdart/internal/version"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir|file.kir...]",
	Short: "Generate Dart libraries from typed units",
	Long: `Lower every *.kir unit under the source directory of kdart.toml (or the
given paths) and write one .dt.g.dart library per unit.`,
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().String("out", "", "output directory (overrides build.out)")
	buildCmd.Flags().Int("jobs", 0, "parallel workers (0 = number of CPUs)")
	buildCmd.Flags().Bool("no-cache", false, "ignore and do not update the output cache")
	buildCmd.Flags().Bool("watch", false, "rebuild when unit files change")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
}

type buildFlags struct {
	out     string
	jobs    int
	noCache bool
	watch   bool
	ui      uiMode
	format  string
	quiet   bool
	timings bool
	maxDiag int
}

func readBuildFlags(cmd *cobra.Command) (buildFlags, error) {
	var f buildFlags
	var err error
	if f.out, err = cmd.Flags().GetString("out"); err != nil {
		return f, fmt.Errorf("failed to get out flag: %w", err)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return f, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if f.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return f, fmt.Errorf("failed to get watch flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return f, nil
}

func buildExecution(cmd *cobra.Command, args []string) error {
	flags, err := readBuildFlags(cmd)
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cwd)
	if err != nil {
		var cfgErr *configError
		if errors.As(err, &cfgErr) {
			if printErr := printDiagnostics(cmd, cfgErr.bag, cfgErr.fs, flags.format); printErr != nil {
				return printErr
			}
		}
		return err
	}
	if err := settings.applyArgs(args, flags.out, flags.jobs, flags.noCache); err != nil {
		return err
	}

	var cache *driver.Cache
	if settings.cacheDir != "" {
		if cache, err = driver.OpenCache(settings.cacheDir); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	run := func() error { return runBuild(ctx, cmd, &settings, cache, flags) }
	if !flags.watch {
		return run()
	}

	if err := run(); err != nil && !errors.Is(err, errBuildFailed) {
		return err
	}
	watchDir := settings.inputs[0]
	if info, statErr := os.Stat(watchDir); statErr == nil && !info.IsDir() {
		watchDir = filepath.Dir(watchDir)
	}
	if !flags.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", formatPathForOutput(settings.root, watchDir))
	}
	return driver.Watch(ctx, watchDir, driver.DefaultDebounce, func(changed []string) error {
		if !flags.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "changed: %s\n", strings.Join(relativePaths(settings.root, changed), ", "))
		}
		if err := run(); err != nil && !errors.Is(err, errBuildFailed) {
			return err
		}
		return nil
	})
}

var errBuildFailed = errors.New("build failed")

func runBuild(ctx context.Context, cmd *cobra.Command, s *buildSettings, cache *driver.Cache, flags buildFlags) error {
	timer := observ.NewTimer()
	req := &buildpipeline.Request{
		Inputs:         s.inputs,
		BaseDir:        s.root,
		OutDir:         s.out,
		Jobs:           s.jobs,
		Cache:          cache,
		ToolVersion:    version.Version,
		MaxDiagnostics: flags.maxDiag,
		Format:         format.Options{Header: s.header()},
		Timer:          timer,
	}

	var (
		res *buildpipeline.Result
		err error
	)
	files, listErr := buildpipeline.ListInputs(s.inputs)
	if !flags.quiet && listErr == nil && len(files) > 0 && shouldUseTUI(flags.ui) {
		res, err = runBuildWithUI(ctx, "kdart build", relativePaths(s.root, files), req)
	} else {
		if !flags.quiet {
			req.Progress = ui.NewLineSink(cmd.OutOrStdout())
		}
		res, err = buildpipeline.Build(ctx, req)
	}
	if res == nil {
		return err
	}

	machine := flags.format == "json" || flags.format == "sarif"
	if flags.timings && machine {
		driver.AppendTimingDiagnostic(res.Bag, formatPathForOutput(s.root, s.out), timer.Report(), 5)
	}
	if printErr := printDiagnostics(cmd, res.Bag, res.FileSet, flags.format); printErr != nil {
		return printErr
	}
	if err != nil {
		return err
	}
	if flags.timings && !machine {
		printStageTimings(cmd.OutOrStdout(), res.Timings)
		_, _ = io.WriteString(cmd.OutOrStdout(), timer.Summary(5))
	}
	if !flags.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "generated %d, unchanged %d, failed %d -> %s\n",
			res.Stats.Written, res.Stats.Unchanged, res.Stats.Failed, formatPathForOutput(s.root, s.out))
	}
	if res.Bag.HasErrors() {
		return errBuildFailed
	}
	return nil
}

func relativePaths(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = formatPathForOutput(root, p)
	}
	return out
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
