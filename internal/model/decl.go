package model

import (
	"strings"

	"pasnav/internal/source"
)

// Declaration is one named definition. It owns its body scope (for
// routines) and its per-file reference index; the Owner back-reference
// is navigational only.
type Declaration struct {
	Kind DeclKind
	Name string // source spelling
	Loc  source.Span

	Owner *Scope // the scope this declaration sits in
	Body  *Scope // parameter-plus-local scope, routines only

	// Refs indexes every recorded use of this declaration, grouped by
	// the file the use occurs in, in source order per file.
	Refs map[*CodeFile][]*Symbol

	// Intf/Impl would pair an interface declaration with its
	// implementation twin. No pass populates them yet.
	Intf *Declaration
	Impl *Declaration

	key string // folded lookup key
}

func NewDeclaration(kind DeclKind, name string, loc source.Span) *Declaration {
	return &Declaration{
		Kind: kind,
		Name: name,
		Loc:  loc,
		key:  strings.ToLower(name),
	}
}

// Len is the click-span size of the declaration site.
func (d *Declaration) Len() uint32 {
	return d.Loc.Len()
}

// AddRef appends one recorded use from the given file.
func (d *Declaration) AddRef(file *CodeFile, sym *Symbol) {
	if d.Refs == nil {
		d.Refs = make(map[*CodeFile][]*Symbol)
	}
	d.Refs[file] = append(d.Refs[file], sym)
}

// RefsIn returns the recorded uses of this declaration inside file,
// in source order.
func (d *Declaration) RefsIn(file *CodeFile) []*Symbol {
	return d.Refs[file]
}

// OwningFile walks the owner chain up to the file that contains this
// declaration.
func (d *Declaration) OwningFile() *CodeFile {
	if d.Owner == nil {
		return nil
	}
	return d.Owner.OwningFile()
}
