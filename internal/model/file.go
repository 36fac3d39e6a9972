package model

import (
	"pasnav/internal/source"
)

// Symbol is one identifier occurrence resolved to a declaration. The
// Decl pointer is navigational; a Symbol never outlives the build it
// was recorded in.
type Symbol struct {
	Loc  source.Span
	Decl *Declaration
}

// Contains reports whether the occurrence's span covers the given
// offset in the given file.
func (s *Symbol) Contains(file source.FileID, off uint32) bool {
	return s.Loc.File == file && s.Loc.Contains(off)
}

// CodeFile is one compiled unit or program. It owns its scopes,
// symbols and include records; Import edges are navigational.
type CodeFile struct {
	Src     *source.File
	Path    string
	Virtual string
	Program bool // program file, as opposed to a unit

	Intf *Scope // units only, nil for programs
	Impl *Scope

	Syms     []*Symbol // every resolved occurrence, source order
	Includes []*IncludeFile
	Import   []*CodeFile // resolved uses dependencies

	Sloc int
}

func NewCodeFile(src *source.File, path, virtual string, program bool) *CodeFile {
	f := &CodeFile{
		Src:     src,
		Path:    path,
		Virtual: virtual,
		Program: program,
	}
	if !program {
		f.Intf = NewScope(ScopeInterface, nil)
		f.Intf.File = f
	}
	implKind := ScopeImplementation
	if program {
		implKind = ScopeBody
	}
	f.Impl = NewScope(implKind, f.Intf)
	f.Impl.File = f
	return f
}

// Name is the display name of the file.
func (f *CodeFile) Name() string {
	return f.Virtual
}

// AddSymbol appends one resolved occurrence to the file's symbol list.
func (f *CodeFile) AddSymbol(sym *Symbol) {
	f.Syms = append(f.Syms, sym)
}

// AddInclude records one observed include directive.
func (f *CodeFile) AddInclude(inc *IncludeFile) {
	inc.Includer = f
	f.Includes = append(f.Includes, inc)
}

// AddImport records a uses dependency edge exactly once.
func (f *CodeFile) AddImport(dep *CodeFile) {
	for _, d := range f.Import {
		if d == dep {
			return
		}
	}
	f.Import = append(f.Import, dep)
}

// SymbolAt finds the symbol whose use-span covers the offset, if any.
func (f *CodeFile) SymbolAt(file source.FileID, off uint32) *Symbol {
	for _, sym := range f.Syms {
		if sym.Contains(file, off) {
			return sym
		}
	}
	return nil
}

// IncludeFile records one textual-include directive: the target file,
// and where the directive sits in the includer.
type IncludeFile struct {
	Path     string
	Loc      source.Span
	Includer *CodeFile
}

// CodeFolder is a directory node of the project tree. It owns its
// children.
type CodeFolder struct {
	Name    string
	Path    string
	Folders []*CodeFolder
	Files   []*CodeFile
}

// Walk visits every file under the folder, depth first.
func (c *CodeFolder) Walk(visit func(*CodeFile)) {
	for _, f := range c.Files {
		visit(f)
	}
	for _, sub := range c.Folders {
		sub.Walk(visit)
	}
}
