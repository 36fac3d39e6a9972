package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"pasnav/internal/model"
	"pasnav/internal/source"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup file line col",
	Short: "Resolve the identifier at a source position to its declaration",
	Long:  `Lookup finds the identifier covering the given 1-based line and column and prints where it is declared`,
	Args:  cobra.ExactArgs(3),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().String("dir", "", "project root (default: walk up from the file)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", args[0], err)
	}
	line, err := parsePos(args[1], "line")
	if err != nil {
		return err
	}
	col, err := parsePos(args[2], "col")
	if err != nil {
		return err
	}

	proj, bag, err := loadProject(cmd, lookupRootArgs(cmd, path))
	if err != nil {
		return err
	}
	printDiagnostics(cmd, proj, bag)

	sym := proj.FindSymbolAt(path, line, col)
	if sym == nil || sym.Decl == nil {
		return fmt.Errorf("%s:%d:%d: no symbol here", args[0], line, col)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", sym.Decl.Kind, sym.Decl.Name)
	fmt.Fprintf(out, "declared at %s\n", declSite(proj.Fset(), sym.Decl))
	return nil
}

// lookupRootArgs derives the loadProject argument: an explicit --dir
// wins, otherwise the manifest walk-up starts at the file's directory.
func lookupRootArgs(cmd *cobra.Command, path string) []string {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return []string{dir}
	}
	manifestPath, ok, err := findPasnavToml(filepath.Dir(path))
	if err == nil && ok {
		return []string{filepath.Dir(manifestPath)}
	}
	return []string{filepath.Dir(path)}
}

func parsePos(s, what string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", what, s)
	}
	return uint32(n), nil
}

func declSite(fset *source.FileSet, d *model.Declaration) string {
	f := fset.Get(d.Loc.File)
	if f == nil {
		return "<unknown>"
	}
	pos := f.Pos(d.Loc.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}
