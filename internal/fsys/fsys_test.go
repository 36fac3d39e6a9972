package fsys

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func scanTree(t *testing.T, root string) *Tree {
	t.Helper()
	tree, err := Scan(context.Background(), root, 2)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return tree
}

func TestScanClassifies(t *testing.T) {
	root := t.TempDir()
	progPath := writeFile(t, root, "main.pas", "program Main; begin end.")
	unitPath := writeFile(t, root, "lib/math.pas", "{ header }\nUNIT Math;\ninterface\nimplementation\nend.")
	incPath := writeFile(t, root, "lib/consts.text", "const MaxN = 100;")
	writeFile(t, root, "notes.md", "not a source file")

	tree := scanTree(t, root)

	cases := []struct {
		path string
		want FileKind
	}{
		{progPath, KindProgram},
		{unitPath, KindUnit},
		{incPath, KindInclude},
	}
	for _, tc := range cases {
		f, ok := tree.Get(tc.path)
		if !ok {
			t.Fatalf("file %s not discovered", tc.path)
		}
		if f.Kind != tc.want {
			t.Fatalf("%s: kind %v, want %v", tc.path, f.Kind, tc.want)
		}
	}
	if _, ok := tree.Get(filepath.Join(root, "notes.md")); ok {
		t.Fatalf("non-source file should not be indexed")
	}
	if got := len(tree.Root.Subdirs); got != 1 {
		t.Fatalf("root subdirs: got %d, want 1", got)
	}
}

func TestFindModulePrefersSameDir(t *testing.T) {
	root := t.TempDir()
	far := writeFile(t, root, "other/util.pas", "unit Util;\ninterface\nimplementation\nend.")
	near := writeFile(t, root, "app/util.pas", "unit Util;\ninterface\nimplementation\nend.")
	appMain := writeFile(t, root, "app/main.pas", "program Main; begin end.")

	tree := scanTree(t, root)
	main, _ := tree.Get(appMain)

	got, ok := tree.FindModule(main.Dir, "util")
	if !ok || got.Path != near {
		t.Fatalf("same-dir resolution: got %v, want %s", got, near)
	}

	// from the root dir only the project-wide index can answer
	gotFar, ok := tree.FindModule(tree.Root, "util")
	if !ok {
		t.Fatalf("project-wide resolution failed")
	}
	if gotFar.Path != near && gotFar.Path != far {
		t.Fatalf("project-wide resolution returned %s", gotFar.Path)
	}

	if _, ok := tree.FindModule(main.Dir, "missing"); ok {
		t.Fatalf("missing unit must not resolve")
	}
}

func TestFindModuleSkipsIncludeText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "shape.text", "const Sides = 4;")
	unitPath := writeFile(t, root, "sub/shape.pas", "unit Shape;\ninterface\nimplementation\nend.")

	tree := scanTree(t, root)
	got, ok := tree.FindModule(tree.Root, "shape")
	if !ok || got.Path != unitPath {
		t.Fatalf("unit resolution picked %v, want %s", got, unitPath)
	}
}

func TestResolveInclude(t *testing.T) {
	root := t.TempDir()
	unitPath := writeFile(t, root, "a/main.pas", "program Main; begin end.")
	incSame := writeFile(t, root, "a/defs.text", "const A = 1;")
	incFar := writeFile(t, root, "b/globals.text", "const B = 2;")

	tree := scanTree(t, root)

	if got, ok := tree.ResolveInclude(unitPath, "defs"); !ok || got != incSame {
		t.Fatalf("bare-name include: got %q ok=%v", got, ok)
	}
	if got, ok := tree.ResolveInclude(unitPath, "DEFS.TEXT"); !ok || got != incSame {
		t.Fatalf("named-with-extension include: got %q ok=%v", got, ok)
	}
	if got, ok := tree.ResolveInclude(unitPath, "globals"); !ok || got != incFar {
		t.Fatalf("project-wide include: got %q ok=%v", got, ok)
	}
	if _, ok := tree.ResolveInclude(unitPath, "nothere"); ok {
		t.Fatalf("unknown include must not resolve")
	}
}

func TestVirtualPathsAndSort(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Zeta/a.pas", "unit A;\ninterface\nimplementation\nend.")
	writeFile(t, root, "alpha/b.pas", "unit B;\ninterface\nimplementation\nend.")

	tree := scanTree(t, root)
	if len(tree.Root.Subdirs) != 2 {
		t.Fatalf("subdirs: got %d, want 2", len(tree.Root.Subdirs))
	}
	// case-insensitive order: alpha before Zeta
	if tree.Root.Subdirs[0].Virtual != "alpha" || tree.Root.Subdirs[1].Virtual != "Zeta" {
		t.Fatalf("sort order: %s, %s", tree.Root.Subdirs[0].Virtual, tree.Root.Subdirs[1].Virtual)
	}
	files := tree.Files()
	if len(files) != 2 {
		t.Fatalf("files: got %d, want 2", len(files))
	}
	for _, f := range files {
		if filepath.IsAbs(f.Virtual) {
			t.Fatalf("virtual path %q must be relative", f.Virtual)
		}
	}
}
