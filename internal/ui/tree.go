package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pasnav/internal/model"
)

// TreeOpts controls project-tree rendering.
type TreeOpts struct {
	Color    bool
	Width    int // truncate long names, <= 0 means no limit
	Includes bool // list include records under each file
}

var (
	folderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	programStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unitStyle    = lipgloss.NewStyle()
	includeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// PrintTree renders the folder/file tree with box-drawing guides.
func PrintTree(w io.Writer, root *model.CodeFolder, opts TreeOpts) {
	if root == nil {
		return
	}
	fmt.Fprintln(w, render(folderStyle, root.Name, opts))
	printFolder(w, root, "", opts)
}

func printFolder(w io.Writer, folder *model.CodeFolder, indent string, opts TreeOpts) {
	total := len(folder.Folders) + len(folder.Files)
	n := 0
	for _, sub := range folder.Folders {
		n++
		guide, next := guides(indent, n == total)
		fmt.Fprintf(w, "%s%s\n", guide, render(folderStyle, sub.Name, opts))
		printFolder(w, sub, next, opts)
	}
	for _, f := range folder.Files {
		n++
		guide, next := guides(indent, n == total)
		fmt.Fprintf(w, "%s%s%s\n", guide, fileLabel(f, opts), fileStats(f, opts))
		if opts.Includes {
			for i, inc := range f.Includes {
				incGuide, _ := guides(next, i == len(f.Includes)-1)
				fmt.Fprintf(w, "%s%s\n", incGuide, render(includeStyle, inc.Path, opts))
			}
		}
	}
}

func guides(indent string, last bool) (line, next string) {
	if last {
		return indent + "└── ", indent + "    "
	}
	return indent + "├── ", indent + "│   "
}

func fileLabel(f *model.CodeFile, opts TreeOpts) string {
	name := f.Virtual
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if f.Program {
		return render(programStyle, name, opts)
	}
	return render(unitStyle, name, opts)
}

func fileStats(f *model.CodeFile, opts TreeOpts) string {
	if f.Src == nil {
		return ""
	}
	stats := fmt.Sprintf("  (%d lines, %d symbols)", f.Sloc, len(f.Syms))
	return render(statStyle, stats, opts)
}

func render(style lipgloss.Style, text string, opts TreeOpts) string {
	if opts.Width > 0 && runewidth.StringWidth(text) > opts.Width {
		text = runewidth.Truncate(text, opts.Width-3, "...")
	}
	if !opts.Color {
		return text
	}
	return style.Render(text)
}
