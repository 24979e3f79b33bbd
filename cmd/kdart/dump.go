package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kdart/internal/dart"
	"kdart/internal/diag"
	"kdart/internal/driver"
	"kdart/internal/format"
	"kdart/internal/ir"
	"kdart/internal/lower"
	"kdart/internal/source"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.kir>",
	Short: "Print the Dart output for one unit",
	Long: `Lower a single unit against the units next to it and print the result
to stdout without writing any files.`,
	Args: cobra.ExactArgs(1),
	RunE: dumpExecution,
}

func init() {
	dumpCmd.Flags().Bool("ast", false, "print the Dart tree instead of source")
	dumpCmd.Flags().Bool("diamonds", false, "list resolved diamond members")
	dumpCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
}

func dumpExecution(cmd *cobra.Command, args []string) error {
	showAST, err := cmd.Flags().GetBool("ast")
	if err != nil {
		return fmt.Errorf("failed to get ast flag: %w", err)
	}
	showDiamonds, err := cmd.Flags().GetBool("diamonds")
	if err != nil {
		return fmt.Errorf("failed to get diamonds flag: %w", err)
	}
	diagFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	siblings, err := driver.ListUnits(filepath.Dir(path))
	if err != nil {
		return err
	}
	if !contains(siblings, path) {
		siblings = append(siblings, path)
	}

	fs := source.NewFileSet()
	fs.SetBaseDir(filepath.Dir(path))
	bag := diag.NewBag(0)
	files := driver.LoadUnits(siblings, fs, bag)
	var target *driver.UnitFile
	units := make([]*ir.Unit, 0, len(files))
	for _, f := range files {
		units = append(units, f.Unit)
		if f.Source == path {
			target = f
		}
	}
	if target == nil {
		if printErr := printDiagnostics(cmd, bag, fs, diagFormat); printErr != nil {
			return printErr
		}
		return fmt.Errorf("cannot load %s", args[0])
	}

	res, err := lower.Lower(target.Unit, ir.NewIndex(&ir.Program{Units: units}))
	if err != nil {
		root := filepath.Dir(path)
		if s, sErr := resolveSettings(root); sErr == nil {
			root = s.root
		}
		driver.ReportResults([]driver.UnitResult{{File: target, Err: err}}, root, fs, bag)
		if printErr := printDiagnostics(cmd, bag, fs, diagFormat); printErr != nil {
			return printErr
		}
		return err
	}

	out := cmd.OutOrStdout()
	if showAST {
		if err := dart.Dump(out, res.Library); err != nil {
			return err
		}
	} else {
		text, err := format.Library(res.Library, format.Options{})
		if err != nil {
			return err
		}
		if _, err := out.Write(text); err != nil {
			return err
		}
	}
	if showDiamonds {
		return printDiamonds(out, res.Diamonds)
	}
	return nil
}

func printDiamonds(out io.Writer, diamonds []lower.Diamond) error {
	for _, d := range diamonds {
		if _, err := fmt.Fprintf(out, "// diamond %s.%s: %s chosen from [%s]\n",
			d.Class, d.Member, d.Chosen, strings.Join(d.Providers, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
