package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"pasnav/internal/model"
	"pasnav/internal/source"
)

var refsCmd = &cobra.Command{
	Use:   "refs file line col",
	Short: "List every use of the identifier at a source position",
	Long:  `Refs resolves the identifier at the given position and prints its declaration site followed by every recorded use, grouped per file`,
	Args:  cobra.ExactArgs(3),
	RunE:  runRefs,
}

func init() {
	refsCmd.Flags().String("dir", "", "project root (default: walk up from the file)")
}

func runRefs(cmd *cobra.Command, args []string) error {
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
	decl := sym.Decl

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s declared at %s\n", decl.Kind, decl.Name, declSite(proj.Fset(), decl))

	// Deterministic order: files by path, uses in source order.
	files := make([]*model.CodeFile, 0, len(decl.Refs))
	for cf := range decl.Refs {
		files = append(files, cf)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	total := 0
	for _, cf := range files {
		uses := decl.RefsIn(cf)
		fmt.Fprintf(out, "%s (%d)\n", cf.Path, len(uses))
		for _, use := range uses {
			fmt.Fprintf(out, "  %s\n", usePosition(proj.Fset(), use.Loc))
			total++
		}
	}
	fmt.Fprintf(out, "%d uses in %d files\n", total, len(files))
	return nil
}

func usePosition(fset *source.FileSet, span source.Span) string {
	f := fset.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	pos := f.Pos(span.Start)
	return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
}
