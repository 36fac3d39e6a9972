// Package ui renders diagnostics and the project tree for the CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pasnav/internal/diag"
	"pasnav/internal/source"
)

// DiagOpts controls diagnostic rendering.
type DiagOpts struct {
	Color   bool
	Context bool // print the offending source line with a caret
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
)

// PrintDiagnostics writes every diagnostic in the bag as
// <path>:<line>:<col>: <severity> <code>: <message>, with an optional
// source-line excerpt underneath.
func PrintDiagnostics(w io.Writer, bag *diag.Bag, fset *source.FileSet, opts DiagOpts) {
	color.NoColor = !opts.Color
	for _, d := range bag.Items() {
		printOne(w, &d, fset, opts)
	}
}

func printOne(w io.Writer, d *diag.Diagnostic, fset *source.FileSet, opts DiagOpts) {
	sev := severityLabel(d.Severity)
	pos := spanPosition(fset, d.Primary)
	if pos != "" {
		fmt.Fprintf(w, "%s: %s %s: %s\n", posColor.Sprint(pos), sev, d.Code, d.Message)
	} else {
		fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code, d.Message)
	}
	if opts.Context {
		printContext(w, fset, d.Primary)
	}
	for _, n := range d.Notes {
		notePos := spanPosition(fset, n.Span)
		if notePos != "" {
			fmt.Fprintf(w, "  %s: note: %s\n", notePos, n.Msg)
		} else {
			fmt.Fprintf(w, "  note: %s\n", n.Msg)
		}
	}
}

func severityLabel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return errColor.Sprint("error")
	case diag.SevWarning:
		return warnColor.Sprint("warning")
	default:
		return infoColor.Sprint("info")
	}
}

func spanPosition(fset *source.FileSet, span source.Span) string {
	if fset == nil || span == (source.Span{}) {
		return ""
	}
	f := fset.Get(span.File)
	if f == nil {
		return ""
	}
	pos := f.Pos(span.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}

// printContext shows the source line and underlines the span.
func printContext(w io.Writer, fset *source.FileSet, span source.Span) {
	if fset == nil || span == (source.Span{}) {
		return
	}
	f := fset.Get(span.File)
	if f == nil {
		return
	}
	pos := f.Pos(span.Start)
	line := f.GetLine(pos.Line)
	if line == "" {
		return
	}
	expanded := strings.ReplaceAll(line, "\t", "    ")
	fmt.Fprintf(w, "  %s\n", expanded)

	prefix := line[:min(int(pos.Col)-1, len(line))]
	pad := runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    "))
	width := int(span.Len())
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), warnColor.Sprint(marker))
}
