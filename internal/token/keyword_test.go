package token

import "testing"

func TestLookupKeywordFoldsCase(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
		ok    bool
	}{
		{ident: "uses", want: KwUses, ok: true},
		{ident: "USES", want: KwUses, ok: true},
		{ident: "Implementation", want: KwImplementation, ok: true},
		{ident: "PROCEDURE", want: KwProcedure, ok: true},
		{ident: "foo", ok: false},
	}
	for _, tt := range tests {
		got, ok := LookupKeyword(tt.ident)
		if ok != tt.ok {
			t.Fatalf("LookupKeyword(%q) ok = %v, want %v", tt.ident, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", tt.ident, got, tt.want)
		}
	}
}

func TestKindClassification(t *testing.T) {
	if !(Token{Kind: KwBegin}).IsKeyword() {
		t.Fatal("begin should classify as keyword")
	}
	if (Token{Kind: Semi}).IsKeyword() {
		t.Fatal("';' is not a keyword")
	}
	if !(Token{Kind: RealLit}).IsLiteral() {
		t.Fatal("real literal should classify as literal")
	}
}
