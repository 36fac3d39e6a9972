package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "pasnav.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write pasnav.toml: %v", err)
	}
	return path
}

func TestFindPasnavTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "[project]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := findPasnavToml(nested)
	if err != nil {
		t.Fatalf("findPasnavToml: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find %s from %s", want, nested)
	}
	if got != want {
		t.Fatalf("findPasnavToml = %q, want %q", got, want)
	}
}

func TestSourceRootFromManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[project]
name = "demo"
root = "src"

[cache]
disabled = true
`)
	srcDir := filepath.Join(root, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, manifest, err := sourceRoot(root)
	if err != nil {
		t.Fatalf("sourceRoot: %v", err)
	}
	if manifest == nil {
		t.Fatalf("expected a manifest")
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("sourceRoot with explicit arg = %q, want %q", got, want)
	}
	if !manifest.Config.Cache.Disabled {
		t.Fatalf("expected cache.disabled = true")
	}
	if manifest.Config.Project.Name != "demo" {
		t.Fatalf("project.name = %q, want demo", manifest.Config.Project.Name)
	}
}

func TestSourceRootUsesManifestRootWithoutArg(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nroot = \"code\"\n")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	got, _, err := sourceRoot("")
	if err != nil {
		t.Fatalf("sourceRoot: %v", err)
	}
	want := filepath.Join(root, "code")
	if got != want {
		t.Fatalf("sourceRoot = %q, want %q", got, want)
	}
}

func TestSourceRootRejectsAbsoluteManifestRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nroot = \"/etc\"\n")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	if _, _, err := sourceRoot(""); err == nil {
		t.Fatalf("expected an error for an absolute [project].root")
	}
}
