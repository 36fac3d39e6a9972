package sema

import (
	"testing"

	"pasnav/internal/lexer"
	"pasnav/internal/model"
	"pasnav/internal/parser"
	"pasnav/internal/source"
)

func buildSrc(t *testing.T, name, src string, program bool) *model.CodeFile {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual(name, []byte(src))
	file := fset.Get(id)
	lx := lexer.New(file, nil)
	p := parser.New(fset, lx)
	root := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	cf := model.NewCodeFile(file, name, name, program)
	Build(cf, root)
	return cf
}

func declNames(s *model.Scope) []string {
	var out []string
	for _, d := range s.Order {
		out = append(out, d.Name)
	}
	return out
}

func TestUnitInterfaceProcWithLocal(t *testing.T) {
	src := `unit A;
interface
	procedure Foo;
implementation
	procedure Foo;
	var x: Integer;
	begin
		x := 1
	end;
end.`
	cf := buildSrc(t, "a.pas", src, false)

	// interface holds the Foo declaration
	var intfFoo *model.Declaration
	for _, d := range cf.Intf.Order {
		if d.Name == "Foo" && d.Kind == model.DeclProc {
			intfFoo = d
		}
	}
	if intfFoo == nil {
		t.Fatalf("interface Foo missing, have %v", declNames(cf.Intf))
	}
	if intfFoo.Body == nil || intfFoo.Body.Kind != model.ScopeBody {
		t.Fatalf("interface Foo lacks a body scope")
	}

	// the implementation redeclares Foo with the local x in its body
	var implFoo *model.Declaration
	for _, d := range cf.Impl.Order {
		if d.Name == "Foo" {
			implFoo = d
		}
	}
	if implFoo == nil {
		t.Fatalf("implementation Foo missing, have %v", declNames(cf.Impl))
	}
	var x *model.Declaration
	for _, d := range implFoo.Body.Order {
		if d.Name == "x" {
			x = d
		}
	}
	if x == nil || x.Kind != model.DeclVar {
		t.Fatalf("local x missing from body scope, have %v", declNames(implFoo.Body))
	}

	// "x := 1" yields exactly one symbol resolving to the local
	var hits int
	for _, sym := range cf.Syms {
		if sym.Decl == x {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("symbols resolving to x: got %d, want 1", hits)
	}
	if refs := x.RefsIn(cf); len(refs) != 1 {
		t.Fatalf("reference index for x: got %d entries, want 1", len(refs))
	}
}

func TestIdentifierListFansOut(t *testing.T) {
	src := `program P;
var a, b, c: Integer;
begin end.`
	cf := buildSrc(t, "p.pas", src, true)

	got := declNames(cf.Impl)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("declarations: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("declaration %d: got %q, want %q", i, got[i], want[i])
		}
		if cf.Impl.Order[i].Kind != model.DeclVar {
			t.Fatalf("declaration %q kind: got %v, want var", got[i], cf.Impl.Order[i].Kind)
		}
	}
	for i := 0; i < len(cf.Impl.Order); i++ {
		for j := i + 1; j < len(cf.Impl.Order); j++ {
			if cf.Impl.Order[i] == cf.Impl.Order[j] {
				t.Fatalf("declarations %d and %d share identity", i, j)
			}
		}
	}
}

func TestEnumMembersBecomeConstants(t *testing.T) {
	src := `program P;
type Color = (Red, Green, Blue);
var c: Color;
begin
	c := Green
end.`
	cf := buildSrc(t, "p.pas", src, true)

	got := declNames(cf.Impl)
	want := []string{"Color", "Red", "Green", "Blue", "c"}
	if len(got) != len(want) {
		t.Fatalf("declarations: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("declaration %d: got %q, want %q", i, got[i], want[i])
		}
	}
	for _, d := range cf.Impl.Order[1:4] {
		if d.Kind != model.DeclConst {
			t.Fatalf("enum member %q kind: got %v, want const", d.Name, d.Kind)
		}
	}
	// c := Green resolves both c and Green
	var greenUses int
	for _, sym := range cf.Syms {
		if sym.Decl != nil && sym.Decl.Name == "Green" {
			greenUses++
		}
	}
	if greenUses != 1 {
		t.Fatalf("uses of Green: got %d, want 1", greenUses)
	}
}

func TestSelfRecursionResolves(t *testing.T) {
	src := `program P;
	function Fact(n: Integer): Integer;
	begin
		if n <= 1 then
			Fact := 1
		else
			Fact := n * Fact(n - 1)
	end;
begin end.`
	cf := buildSrc(t, "p.pas", src, true)

	var fact *model.Declaration
	for _, d := range cf.Impl.Order {
		if d.Name == "Fact" {
			fact = d
		}
	}
	if fact == nil || fact.Kind != model.DeclFunc {
		t.Fatalf("Fact declaration missing")
	}
	// parameter n lives in the body scope
	var param *model.Declaration
	for _, d := range fact.Body.Order {
		if d.Name == "n" {
			param = d
		}
	}
	if param == nil || param.Kind != model.DeclParam {
		t.Fatalf("parameter n missing from body scope")
	}
	// Fact is referenced from inside its own body
	refs := fact.RefsIn(cf)
	if len(refs) < 3 { // two assignment targets and one recursive call
		t.Fatalf("references to Fact: got %d, want at least 3", len(refs))
	}
	for _, sym := range refs {
		if sym.Decl != fact {
			t.Fatalf("reference resolves to %v, want Fact", sym.Decl)
		}
	}
}

func TestForVariableIsUseNotDeclaration(t *testing.T) {
	src := `program P;
var i, total: Integer;
begin
	for i := 1 to 10 do
		total := total + i
end.`
	cf := buildSrc(t, "p.pas", src, true)

	if got := len(cf.Impl.Order); got != 2 {
		t.Fatalf("declarations: got %d, want 2 (loop must not declare)", got)
	}
	var iDecl *model.Declaration
	for _, d := range cf.Impl.Order {
		if d.Name == "i" {
			iDecl = d
		}
	}
	refs := iDecl.RefsIn(cf)
	if len(refs) != 2 { // the for header and the loop body
		t.Fatalf("uses of i: got %d, want 2", len(refs))
	}
}

func TestUnresolvedIdentifierIsSilent(t *testing.T) {
	src := `program P;
var n: Integer;
begin
	writeln(n)
end.`
	cf := buildSrc(t, "p.pas", src, true)

	// writeln is a built-in: no declaration, no symbol, no error
	for _, sym := range cf.Syms {
		if sym.Decl == nil {
			t.Fatalf("unresolved occurrence must not be recorded")
		}
	}
	var nUses int
	for _, sym := range cf.Syms {
		if sym.Decl != nil && sym.Decl.Name == "n" {
			nUses++
		}
	}
	if nUses != 1 {
		t.Fatalf("uses of n: got %d, want 1", nUses)
	}
}

func TestUseBeforeDeclResolvesOuterOnly(t *testing.T) {
	src := `program P;
var x: Integer;
	procedure Q;
	const y = x;
	var x: Integer;
	begin
	end;
begin end.`
	cf := buildSrc(t, "p.pas", src, true)

	outerX := cf.Impl.Order[0]
	if outerX.Name != "x" {
		t.Fatalf("outer x missing")
	}
	var q *model.Declaration
	for _, d := range cf.Impl.Order {
		if d.Name == "Q" {
			q = d
		}
	}
	// the use of x in "const y = x" precedes the local x declaration,
	// so it resolves to the outer one
	refs := outerX.RefsIn(cf)
	if len(refs) != 1 {
		t.Fatalf("uses of outer x: got %d, want 1", len(refs))
	}
	var localX *model.Declaration
	for _, d := range q.Body.Order {
		if d.Name == "x" {
			localX = d
		}
	}
	if localX == nil {
		t.Fatalf("local x missing")
	}
	if len(localX.RefsIn(cf)) != 0 {
		t.Fatalf("later local x must not capture the earlier use")
	}
}

func TestInterfaceVisibleFromImplementation(t *testing.T) {
	src := `unit U;
interface
	const Max = 10;
implementation
	var buf: Integer;
	procedure Fill;
	begin
		buf := Max
	end;
end.`
	cf := buildSrc(t, "u.pas", src, false)

	maxDecl := cf.Intf.Order[0]
	if maxDecl.Name != "Max" {
		t.Fatalf("interface Max missing")
	}
	if refs := maxDecl.RefsIn(cf); len(refs) != 1 {
		t.Fatalf("uses of Max from implementation: got %d, want 1", len(refs))
	}
}
