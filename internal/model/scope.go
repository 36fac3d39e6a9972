package model

import "strings"

// Scope is an ordered name-resolution context. Order is insertion
// order, which is declaration order in source; lookups scan it first
// to last, so a name never resolves to a declaration appearing later
// in the same scope.
type Scope struct {
	Kind  ScopeKind
	Order []*Declaration

	// exactly one owner: a file-level scope or a routine body
	File *CodeFile
	Decl *Declaration

	Outer *Scope

	cache map[string]*Declaration
}

func NewScope(kind ScopeKind, outer *Scope) *Scope {
	return &Scope{Kind: kind, Outer: outer}
}

// Declare appends d to this scope and records the ownership link.
func (s *Scope) Declare(d *Declaration) {
	d.Owner = s
	s.Order = append(s.Order, d)
}

// FindDecl resolves a name along the lexical chain. The scan of each
// scope's own order is memoized in that scope; a miss falls through to
// the outer scope. Lookup is case-insensitive, matching the folding
// applied when names are declared. A nil result means the identifier
// denotes something the model does not track.
func (s *Scope) FindDecl(name string) *Declaration {
	return s.findFolded(strings.ToLower(name))
}

func (s *Scope) findFolded(key string) *Declaration {
	if d, ok := s.cache[key]; ok {
		return d
	}
	for _, d := range s.Order {
		if d.key == key {
			if s.cache == nil {
				s.cache = make(map[string]*Declaration)
			}
			s.cache[key] = d
			return d
		}
	}
	if s.Outer != nil {
		return s.Outer.findFolded(key)
	}
	return nil
}

// OwningFile walks owners until it reaches the containing file.
func (s *Scope) OwningFile() *CodeFile {
	scope := s
	for scope != nil {
		if scope.File != nil {
			return scope.File
		}
		if scope.Decl == nil {
			return nil
		}
		scope = scope.Decl.Owner
	}
	return nil
}
