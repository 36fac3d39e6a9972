package lexer

import (
	"os"
	"path/filepath"
	"testing"

	"pasnav/internal/diag"
	"pasnav/internal/source"
	"pasnav/internal/token"
)

type dirResolver struct{ dir string }

func (r dirResolver) ResolveInclude(includerPath, name string) (string, bool) {
	p := filepath.Join(r.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPpLexerSplicesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc.pas", "const N = 1;\n")
	root := writeFile(t, dir, "main.pas", "unit A;\n{$I inc.pas}\ninterface\n")

	fs := source.NewFileSet()
	id, err := fs.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	pp := NewPp(fs, fs.Get(id), dirResolver{dir: dir}, diag.NopReporter{})

	var texts []string
	for {
		tok := pp.Next()
		if tok.Kind == token.EOF {
			break
		}
		texts = append(texts, tok.Text)
	}
	want := []string{"unit", "A", ";", "const", "N", "=", "1", ";", "interface"}
	if len(texts) != len(want) {
		t.Fatalf("tokens = %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, texts[i], want[i])
		}
	}

	incs := pp.Includes()
	if len(incs) != 1 {
		t.Fatalf("includes = %d, want 1", len(incs))
	}
	if filepath.Base(incs[0].Path) != "inc.pas" {
		t.Fatalf("include path = %q", incs[0].Path)
	}
	if incs[0].Span.File != id {
		t.Fatal("include span should point into the including file")
	}

	// main.pas has 2 token lines, inc.pas has 1
	if pp.Sloc() != 3 {
		t.Fatalf("sloc = %d, want 3", pp.Sloc())
	}
}

func TestPpLexerUnresolvedIncludeDiagnostic(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.pas", "unit A;\n{$I missing.pas}\ninterface\n")

	fs := source.NewFileSet()
	id, err := fs.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(8)
	pp := NewPp(fs, fs.Get(id), dirResolver{dir: dir}, &diag.BagReporter{Bag: bag})
	for pp.Next().Kind != token.EOF {
	}

	if bag.CountCode(diag.LexUnresolvedInclude) != 1 {
		t.Fatalf("expected one unresolved-include diagnostic, got %d", bag.Len())
	}
	if len(pp.Includes()) != 0 {
		t.Fatal("unresolved include must not be recorded")
	}
}

func TestPpLexerIoToggleIsNotAnInclude(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.pas", "unit A;\n{$I-}\ninterface\n")

	fs := source.NewFileSet()
	id, err := fs.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	pp := NewPp(fs, fs.Get(id), dirResolver{dir: dir}, diag.NopReporter{})
	for pp.Next().Kind != token.EOF {
	}
	if len(pp.Includes()) != 0 {
		t.Fatal("{$I-} is an io toggle, not an include")
	}
}
