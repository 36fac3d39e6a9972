package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pasnav/internal/diag"
	"pasnav/internal/driver"
	"pasnav/internal/model"
	"pasnav/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Build the semantic model of a Pascal source tree",
	Long:  `Build scans the source tree, parses every program and unit in dependency order and reports what it found`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("quiet", false, "suppress the build summary")
}

// loadProject resolves the source root, opens the pre-scan cache and
// builds the model. Shared by every subcommand that needs a project.
func loadProject(cmd *cobra.Command, args []string) (*driver.CodeModel, *diag.Bag, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	root, manifest, err := sourceRoot(arg)
	if err != nil {
		return nil, nil, err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if manifest != nil && manifest.Config.Cache.Disabled {
		noCache = true
	}

	var cache *driver.ScanCache
	if !noCache {
		if manifest != nil && manifest.Config.Cache.Dir != "" {
			cache, err = driver.OpenScanCacheAt(manifest.Config.Cache.Dir)
		} else {
			cache, err = driver.OpenScanCache("pasnav")
		}
		if err != nil {
			// The cache is an optimization; a broken cache dir must
			// not fail the build.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: scan cache unavailable: %v\n", err)
			cache = nil
		}
	}

	bag := diag.NewBag(maxDiagnostics)
	proj, err := driver.Load(cmd.Context(), root, driver.Options{
		Reporter: &diag.BagReporter{Bag: bag},
		Cache:    cache,
		Jobs:     jobs,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", root, err)
	}
	return proj, bag, nil
}

func printDiagnostics(cmd *cobra.Command, proj *driver.CodeModel, bag *diag.Bag) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	ui.PrintDiagnostics(os.Stderr, bag, proj.Fset(), ui.DiagOpts{
		Color:   useColor(cmd, os.Stderr),
		Context: true,
	})
}

func runBuild(cmd *cobra.Command, args []string) error {
	proj, bag, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, proj, bag)

	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		return nil
	}

	files, symbols, includes := 0, 0, 0
	proj.Root().Walk(func(f *model.CodeFile) {
		files++
		symbols += len(f.Syms)
		includes += len(f.Includes)
	})
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d files, %d includes, %d lines, %d symbols\n",
		files, includes, proj.Sloc(), symbols)
	if bag.Len() > 0 {
		fmt.Fprintf(out, "%d diagnostics\n", bag.Len())
	}
	if bag.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("build finished with errors")
	}
	return nil
}
