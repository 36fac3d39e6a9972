package model

import (
	"testing"

	"pasnav/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestFindDeclShadowing(t *testing.T) {
	outer := NewScope(ScopeImplementation, nil)
	inner := NewScope(ScopeBody, outer)

	outerX := NewDeclaration(DeclVar, "x", span(1, 0, 1))
	outer.Declare(outerX)
	innerX := NewDeclaration(DeclVar, "x", span(1, 10, 11))
	inner.Declare(innerX)

	if got := inner.FindDecl("x"); got != innerX {
		t.Fatalf("inner lookup: got %v, want inner declaration", got)
	}
	if got := outer.FindDecl("x"); got != outerX {
		t.Fatalf("outer lookup: got %v, want outer declaration", got)
	}
}

func TestFindDeclOuterFallback(t *testing.T) {
	outer := NewScope(ScopeInterface, nil)
	inner := NewScope(ScopeBody, outer)

	pi := NewDeclaration(DeclConst, "Pi", span(1, 0, 2))
	outer.Declare(pi)

	if got := inner.FindDecl("pi"); got != pi {
		t.Fatalf("fallback lookup: got %v, want outer declaration", got)
	}
	if got := inner.FindDecl("tau"); got != nil {
		t.Fatalf("unknown name: got %v, want nil", got)
	}
}

func TestFindDeclCaseInsensitive(t *testing.T) {
	s := NewScope(ScopeImplementation, nil)
	d := NewDeclaration(DeclProc, "WriteLine", span(1, 0, 9))
	s.Declare(d)

	for _, name := range []string{"WriteLine", "writeline", "WRITELINE", "wRiTeLiNe"} {
		if got := s.FindDecl(name); got != d {
			t.Fatalf("lookup %q: got %v, want declaration", name, got)
		}
	}
	if d.Name != "WriteLine" {
		t.Fatalf("declaration must keep its source spelling, got %q", d.Name)
	}
}

func TestFindDeclFirstMatchWins(t *testing.T) {
	s := NewScope(ScopeImplementation, nil)
	first := NewDeclaration(DeclVar, "n", span(1, 0, 1))
	second := NewDeclaration(DeclVar, "n", span(1, 5, 6))
	s.Declare(first)
	s.Declare(second)

	if got := s.FindDecl("n"); got != first {
		t.Fatalf("duplicate name: got %v, want first declaration", got)
	}
}

func TestFindDeclMemoizesScanHits(t *testing.T) {
	outer := NewScope(ScopeInterface, nil)
	inner := NewScope(ScopeBody, outer)
	d := NewDeclaration(DeclVar, "k", span(1, 0, 1))
	outer.Declare(d)

	if got := inner.FindDecl("k"); got != d {
		t.Fatalf("lookup: got %v", got)
	}
	// the hit was scanned in outer, so only outer's cache holds it
	if inner.cache != nil {
		if _, ok := inner.cache["k"]; ok {
			t.Fatalf("originating scope must not cache an outer hit")
		}
	}
	if _, ok := outer.cache["k"]; !ok {
		t.Fatalf("scanning scope must cache its own hit")
	}
	// cached path returns the same declaration
	if got := inner.FindDecl("k"); got != d {
		t.Fatalf("second lookup: got %v", got)
	}
}

func TestOwningFileWalk(t *testing.T) {
	src := &source.File{ID: 1, Path: "a.pas"}
	cf := NewCodeFile(src, "a.pas", "a.pas", false)

	proc := NewDeclaration(DeclProc, "Foo", span(1, 0, 3))
	cf.Impl.Declare(proc)
	body := NewScope(ScopeBody, cf.Impl)
	body.Decl = proc
	proc.Body = body

	local := NewDeclaration(DeclVar, "x", span(1, 10, 11))
	body.Declare(local)

	if got := body.OwningFile(); got != cf {
		t.Fatalf("body owning file: got %v, want the code file", got)
	}
	if got := local.OwningFile(); got != cf {
		t.Fatalf("declaration owning file: got %v, want the code file", got)
	}
	if got := cf.Intf.OwningFile(); got != cf {
		t.Fatalf("interface owning file: got %v, want the code file", got)
	}
}

func TestSymbolAtHitTest(t *testing.T) {
	src := &source.File{ID: 1, Path: "a.pas"}
	cf := NewCodeFile(src, "a.pas", "a.pas", true)
	d := NewDeclaration(DeclVar, "count", span(1, 4, 9))
	cf.Impl.Declare(d)

	sym := &Symbol{Loc: span(1, 20, 25), Decl: d}
	cf.AddSymbol(sym)
	d.AddRef(cf, sym)

	if got := cf.SymbolAt(1, 20); got != sym {
		t.Fatalf("start offset: got %v, want the symbol", got)
	}
	if got := cf.SymbolAt(1, 24); got != sym {
		t.Fatalf("last offset: got %v, want the symbol", got)
	}
	if got := cf.SymbolAt(1, 25); got != nil {
		t.Fatalf("end offset is exclusive, got %v", got)
	}
	if got := cf.SymbolAt(2, 20); got != nil {
		t.Fatalf("other file: got %v, want nil", got)
	}
	if refs := d.RefsIn(cf); len(refs) != 1 || refs[0] != sym {
		t.Fatalf("reference index: got %v", refs)
	}
}
