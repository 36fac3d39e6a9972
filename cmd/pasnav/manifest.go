package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Dir    string
	Config projectConfig
}

type projectConfig struct {
	Project projectSection `toml:"project"`
	Cache   cacheSection   `toml:"cache"`
}

type projectSection struct {
	Name string `toml:"name"`
	Root string `toml:"root"` // source root, relative to the manifest
}

type cacheSection struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// findPasnavToml walks up from startDir to locate pasnav.toml.
func findPasnavToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "pasnav.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findPasnavToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Dir:    filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// sourceRoot resolves the directory the model is built from: an
// explicit argument wins, otherwise the manifest's [project].root,
// otherwise the start directory itself.
func sourceRoot(arg string) (string, *projectManifest, error) {
	start := arg
	if start == "" {
		start = "."
	}
	manifest, ok, err := loadManifest(start)
	if err != nil {
		return "", nil, err
	}
	if arg != "" {
		abs, err := filepath.Abs(arg)
		return abs, manifest, err
	}
	if ok {
		root := strings.TrimSpace(manifest.Config.Project.Root)
		if root == "" {
			return manifest.Dir, manifest, nil
		}
		if filepath.IsAbs(root) {
			return "", nil, fmt.Errorf("%s: [project].root must be relative", manifest.Path)
		}
		return filepath.Join(manifest.Dir, filepath.FromSlash(root)), manifest, nil
	}
	abs, err := filepath.Abs(start)
	return abs, nil, err
}
