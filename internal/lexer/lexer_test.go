package lexer

import (
	"testing"

	"pasnav/internal/diag"
	"pasnav/internal/source"
	"pasnav/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.pas", []byte(src)))
	lx := New(f, diag.NopReporter{})
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestScanUnitHeader(t *testing.T) {
	toks := lexAll(t, "unit Foo;\ninterface\nuses Bar, Baz;")
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.KwUnit, "unit"},
		{token.Ident, "Foo"},
		{token.Semi, ";"},
		{token.KwInterface, "interface"},
		{token.KwUses, "uses"},
		{token.Ident, "Bar"},
		{token.Comma, ","},
		{token.Ident, "Baz"},
		{token.Semi, ";"},
	}
	if len(toks) != len(want) {
		t.Fatalf("token count = %d, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Fatalf("token %d = (%v, %q), want (%v, %q)", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestKeywordsFoldButIdentsKeepSpelling(t *testing.T) {
	toks := lexAll(t, "PROCEDURE DoIt;")
	if toks[0].Kind != token.KwProcedure {
		t.Fatalf("kind = %v, want procedure keyword", toks[0].Kind)
	}
	if toks[1].Text != "DoIt" {
		t.Fatalf("identifier spelling = %q, want %q", toks[1].Text, "DoIt")
	}
}

func TestScanOperatorsAndLiterals(t *testing.T) {
	toks := lexAll(t, "x := 3.14; y := $FF; s := 'it''s'; r := a <> b;")
	kinds := []token.Kind{
		token.Ident, token.Assign, token.RealLit, token.Semi,
		token.Ident, token.Assign, token.IntLit, token.Semi,
		token.Ident, token.Assign, token.StringLit, token.Semi,
		token.Ident, token.Assign, token.Ident, token.NotEq, token.Ident, token.Semi,
	}
	if len(toks) != len(kinds) {
		t.Fatalf("token count = %d, want %d", len(toks), len(kinds))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v (%q), want %v", i, toks[i].Kind, toks[i].Text, k)
		}
	}
}

func TestSubrangeNotEatenAsReal(t *testing.T) {
	toks := lexAll(t, "1..10")
	kinds := []token.Kind{token.IntLit, token.DotDot, token.IntLit}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestCommentsSkippedAndSlocCountsTokenLines(t *testing.T) {
	src := "unit A;\n\n{ only a comment }\n(* another *)\ninterface\nend.\n"
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.pas", []byte(src)))
	lx := New(f, diag.NopReporter{})
	n := 0
	for lx.Next().Kind != token.EOF {
		n++
	}
	if n != 6 { // unit A ; interface end .
		t.Fatalf("token count = %d, want 6", n)
	}
	// blank and comment-only lines do not count
	if lx.Sloc() != 3 {
		t.Fatalf("sloc = %d, want 3", lx.Sloc())
	}
}

func TestUnterminatedStringReported(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("bad.pas", []byte("s := 'oops\n")))
	bag := diag.NewBag(8)
	lx := New(f, &diag.BagReporter{Bag: bag})
	for lx.Next().Kind != token.EOF {
	}
	if bag.CountCode(diag.LexUnterminatedString) != 1 {
		t.Fatalf("expected one unterminated-string diagnostic, got %d", bag.Len())
	}
}
