// Package driver builds the whole-project semantic model: it
// discovers the source tree, orders files so uses-dependencies are
// built first, and runs the lexer, parser and semantic builder over
// every unit and program file.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"pasnav/internal/diag"
	"pasnav/internal/fsys"
	"pasnav/internal/lexer"
	"pasnav/internal/model"
	"pasnav/internal/parser"
	"pasnav/internal/sema"
	"pasnav/internal/source"
)

type buildMark uint8

const (
	markUnbuilt buildMark = iota
	markBuilding
	markBuilt
)

// Options configures a project load.
type Options struct {
	Reporter diag.Reporter
	Cache    *ScanCache // optional pre-scan cache
	Jobs     int        // classification fan-out, <= 0 means GOMAXPROCS
}

// CodeModel is one fully built project. After Load returns the graph
// is read-only and safe for concurrent lookups until the next Load,
// which starts over from an empty model.
type CodeModel struct {
	fset     *source.FileSet
	tree     *fsys.Tree
	root     *model.CodeFolder
	files    map[string]*model.CodeFile // real path -> unit or program
	includes map[string]*model.CodeFile // include real path -> includer
	marks    map[*model.CodeFile]buildMark
	reporter diag.Reporter
	cache    *ScanCache
	sloc     int
}

// Load discovers and builds the project rooted at rootDir.
func Load(ctx context.Context, rootDir string, opts Options) (*CodeModel, error) {
	tree, err := fsys.Scan(ctx, rootDir, opts.Jobs)
	if err != nil {
		return nil, err
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	m := &CodeModel{
		fset:     source.NewFileSet(),
		tree:     tree,
		files:    make(map[string]*model.CodeFile),
		includes: make(map[string]*model.CodeFile),
		marks:    make(map[*model.CodeFile]buildMark),
		reporter: reporter,
		cache:    opts.Cache,
	}
	m.root = m.fillFolders(tree.Root)
	for _, f := range tree.Files() {
		if cf, ok := m.files[f.Path]; ok {
			m.ensureBuilt(cf)
		}
	}
	return m, nil
}

// fillFolders mirrors the discovered directory tree onto the model.
// Folders and files land in the index regardless of build outcome;
// only unit and program files become CodeFiles.
func (m *CodeModel) fillFolders(d *fsys.Dir) *model.CodeFolder {
	folder := &model.CodeFolder{
		Name: filepath.Base(d.Path),
		Path: d.Path,
	}
	for _, f := range d.Files {
		if f.Kind != fsys.KindProgram && f.Kind != fsys.KindUnit {
			continue
		}
		cf := model.NewCodeFile(nil, f.Path, f.Virtual, f.Kind == fsys.KindProgram)
		folder.Files = append(folder.Files, cf)
		m.files[f.Path] = cf
	}
	for _, sub := range d.Subdirs {
		folder.Folders = append(folder.Folders, m.fillFolders(sub))
	}
	return folder
}

// ensureBuilt builds cf unless it is already built or currently being
// built. Dependencies found by the pre-scan are built first; the
// three-state mark turns a uses-cycle into a recoverable diagnostic
// instead of unbounded recursion.
func (m *CodeModel) ensureBuilt(cf *model.CodeFile) {
	if m.marks[cf] != markUnbuilt {
		return
	}
	m.marks[cf] = markBuilding

	file, err := m.loadSource(cf)
	if err != nil {
		diag.ReportError(m.reporter, diag.ProjParseFailed, source.Span{},
			fmt.Sprintf("%s: cannot read file: %v", cf.Virtual, err))
		m.marks[cf] = markBuilt
		return
	}

	for _, u := range m.scanUses(file, cf) {
		node, _ := m.tree.Get(cf.Path)
		var dir *fsys.Dir
		if node != nil {
			dir = node.Dir
		}
		depNode, ok := m.tree.FindModule(dir, strings.ToLower(u.Name))
		if !ok {
			diag.ReportWarning(m.reporter, diag.ProjUnresolvedUnit, u.Span,
				fmt.Sprintf("%s: cannot resolve referenced unit %q", cf.Virtual, u.Name))
			continue
		}
		dep := m.files[depNode.Path]
		if dep == nil {
			continue
		}
		// the edge is recorded even when the dependency build degrades
		cf.AddImport(dep)
		if m.marks[dep] == markBuilding {
			diag.ReportWarning(m.reporter, diag.ProjUnitCycle, u.Span,
				fmt.Sprintf("%s: unit dependency cycle through %q, continuing with its partial interface", cf.Virtual, u.Name))
			continue
		}
		m.ensureBuilt(dep)
	}

	m.marks[cf] = markBuilt
	m.parseAndResolve(cf, file)
}

func (m *CodeModel) loadSource(cf *model.CodeFile) (*source.File, error) {
	if f, ok := m.fset.GetByPath(cf.Path); ok {
		return f, nil
	}
	id, err := m.fset.Load(cf.Path)
	if err != nil {
		return nil, err
	}
	return m.fset.Get(id), nil
}

func (m *CodeModel) scanUses(file *source.File, cf *model.CodeFile) []Use {
	if uses, ok := m.cache.Get(file.Hash, file.ID, cf.Path); ok {
		return uses
	}
	uses := findUses(file)
	if err := m.cache.Put(file.Hash, cf.Path, uses); err != nil {
		diag.ReportWarning(m.reporter, diag.ProjParseFailed, source.Span{},
			fmt.Sprintf("%s: cannot cache uses scan: %v", cf.Virtual, err))
	}
	return uses
}

// parseAndResolve runs the preprocessing lexer, the parser and the
// semantic builder over one file, then records its includes and line
// count.
func (m *CodeModel) parseAndResolve(cf *model.CodeFile, file *source.File) {
	cf.Src = file

	pp := lexer.NewPp(m.fset, file, m.tree, m.reporter)
	p := parser.New(m.fset, pp)
	root := p.Parse()

	for _, e := range p.Errors() {
		m.reportParseError(e)
	}
	for _, inc := range pp.Includes() {
		cf.AddInclude(&model.IncludeFile{Path: inc.Path, Loc: inc.Span})
		m.includes[inc.Path] = cf
	}
	cf.Sloc = int(pp.Sloc())
	m.sloc += cf.Sloc

	sema.Build(cf, root)
}

// reportParseError turns a structured parse error back into a span
// diagnostic. A broken file only degrades its own navigation.
func (m *CodeModel) reportParseError(e parser.Error) {
	span := source.Span{}
	if f, ok := m.fset.GetByPath(e.Path); ok {
		off := f.Offset(source.LineCol{Line: e.Row, Col: e.Col})
		span = source.Span{File: f.ID, Start: off, End: off}
	}
	diag.ReportWarning(m.reporter, diag.ProjParseFailed, span, e.Msg)
}

// --- query surface --------------------------------------------------

// Root returns the folder tree.
func (m *CodeModel) Root() *model.CodeFolder {
	return m.root
}

// Fset returns the file set backing all recorded spans.
func (m *CodeModel) Fset() *source.FileSet {
	return m.fset
}

// Sloc returns the accumulated source-line count of the project.
func (m *CodeModel) Sloc() int {
	return m.sloc
}

// CodeFileFor maps a real path to its CodeFile. A path belonging to
// an included text resolves to the including unit.
func (m *CodeModel) CodeFileFor(path string) *model.CodeFile {
	if cf, ok := m.files[path]; ok {
		return cf
	}
	return m.includes[path]
}

// FindSymbolAt finds the symbol whose use-span covers the 1-based
// line/column position in the file at path.
func (m *CodeModel) FindSymbolAt(path string, line, col uint32) *model.Symbol {
	cf := m.CodeFileFor(path)
	if cf == nil {
		return nil
	}
	f, ok := m.fset.GetByPath(path)
	if !ok {
		return nil
	}
	off := f.Offset(source.LineCol{Line: line, Col: col})
	return cf.SymbolAt(f.ID, off)
}

// Files returns every built CodeFile keyed by real path.
func (m *CodeModel) Files() map[string]*model.CodeFile {
	return m.files
}
