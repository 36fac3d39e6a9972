// Package fsys maps a project directory tree onto the model's folder
// and file nodes: it discovers Pascal sources, classifies them as
// program, unit or include text, and answers unit-name and
// include-name resolution queries.
package fsys

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FileKind classifies a discovered source file by its leading token.
type FileKind uint8

const (
	KindUnknown FileKind = iota
	KindProgram
	KindUnit
	KindInclude // plain text spliced via an include directive
)

func (k FileKind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindUnit:
		return "unit"
	case KindInclude:
		return "include"
	default:
		return "unknown"
	}
}

// File is one discovered source file.
type File struct {
	Path    string // absolute path on disk
	Virtual string // display path, slash separated, relative to the root
	Kind    FileKind
	Dir     *Dir
}

// Dir is one directory node. Children are sorted case-insensitively.
type Dir struct {
	Path    string
	Virtual string
	Subdirs []*Dir
	Files   []*File
}

// Tree is the discovered project tree plus its lookup indices.
type Tree struct {
	Root    *Dir
	byPath  map[string]*File   // absolute path -> file
	byStem  map[string][]*File // lower-cased base name sans extension
	byLower map[string][]*File // lower-cased base name with extension
}

var sourceExts = map[string]bool{
	".pas":  true,
	".pp":   true,
	".text": true,
	".txt":  true,
}

func isSourcePath(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

// Stem returns the lower-cased base name without its extension, the
// form unit names are matched against.
func Stem(path string) string {
	base := strings.ToLower(filepath.Base(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan walks root, classifies every candidate source file and returns
// the assembled tree. Classification of individual files fans out over
// jobs goroutines; jobs <= 0 means GOMAXPROCS.
func Scan(ctx context.Context, root string, jobs int) (*Tree, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		path string
		dir  string
	}
	var cands []candidate
	dirs := map[string]*Dir{}
	rootDir := &Dir{Path: absRoot, Virtual: "."}
	dirs[absRoot] = rootDir

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			rel, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				return relErr
			}
			node := &Dir{Path: path, Virtual: filepath.ToSlash(rel)}
			dirs[path] = node
			parent := dirs[filepath.Dir(path)]
			parent.Subdirs = append(parent.Subdirs, node)
			return nil
		}
		if isSourcePath(path) {
			cands = append(cands, candidate{path: path, dir: filepath.Dir(path)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// classification is read-only; indices are unique per goroutine
	kinds := make([]FileKind, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	if len(cands) > 0 {
		g.SetLimit(min(jobs, len(cands)))
	}
	for i, c := range cands {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			kinds[i] = classifyFile(c.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree := &Tree{
		Root:    rootDir,
		byPath:  make(map[string]*File, len(cands)),
		byStem:  make(map[string][]*File),
		byLower: make(map[string][]*File),
	}
	for i, c := range cands {
		rel, relErr := filepath.Rel(absRoot, c.path)
		if relErr != nil {
			return nil, relErr
		}
		dir := dirs[c.dir]
		f := &File{
			Path:    c.path,
			Virtual: filepath.ToSlash(rel),
			Kind:    kinds[i],
			Dir:     dir,
		}
		dir.Files = append(dir.Files, f)
		tree.byPath[c.path] = f
		tree.byStem[Stem(c.path)] = append(tree.byStem[Stem(c.path)], f)
		lower := strings.ToLower(filepath.Base(c.path))
		tree.byLower[lower] = append(tree.byLower[lower], f)
	}

	tree.sortTree()
	return tree, nil
}

// sortTree orders every directory's children case-insensitively so
// walks and project-wide resolution are deterministic.
func (t *Tree) sortTree() {
	coll := collate.New(language.Und, collate.IgnoreCase)
	var walk func(d *Dir)
	walk = func(d *Dir) {
		coll.Sort(dirsByVirtual(d.Subdirs))
		coll.Sort(filesByVirtual(d.Files))
		for _, sub := range d.Subdirs {
			walk(sub)
		}
	}
	walk(t.Root)
	for _, fl := range t.byStem {
		coll.Sort(filesByVirtual(fl))
	}
	for _, fl := range t.byLower {
		coll.Sort(filesByVirtual(fl))
	}
}

type dirsByVirtual []*Dir

func (s dirsByVirtual) Len() int           { return len(s) }
func (s dirsByVirtual) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s dirsByVirtual) Bytes(i int) []byte { return []byte(s[i].Virtual) }

type filesByVirtual []*File

func (s filesByVirtual) Len() int           { return len(s) }
func (s filesByVirtual) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s filesByVirtual) Bytes(i int) []byte { return []byte(s[i].Virtual) }

// Get returns the discovered file for an absolute path.
func (t *Tree) Get(path string) (*File, bool) {
	f, ok := t.byPath[path]
	return f, ok
}

// FindModule resolves a lower-cased unit name to the file implementing
// it: first in the given directory, then anywhere under the root.
func (t *Tree) FindModule(dir *Dir, lowerName string) (*File, bool) {
	if dir != nil {
		for _, f := range dir.Files {
			if f.Kind != KindInclude && Stem(f.Path) == lowerName {
				return f, true
			}
		}
	}
	for _, f := range t.byStem[lowerName] {
		if f.Kind != KindInclude {
			return f, true
		}
	}
	return nil, false
}

// ResolveInclude resolves an include directive's target name relative
// to the including file. The name may carry an extension; without one
// any known source extension matches. Implements the lexer's resolver
// contract.
func (t *Tree) ResolveInclude(includerPath, name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return "", false
	}
	dir := filepath.Dir(includerPath)
	if f, ok := t.matchInclude(dir, lower); ok {
		return f, true
	}
	// fall back to a project-wide search
	if hasExt(lower) {
		if fl := t.byLower[lower]; len(fl) > 0 {
			return fl[0].Path, true
		}
		return "", false
	}
	if fl := t.byStem[lower]; len(fl) > 0 {
		return fl[0].Path, true
	}
	return "", false
}

func hasExt(name string) bool {
	return filepath.Ext(name) != ""
}

func (t *Tree) matchInclude(dir, lower string) (string, bool) {
	if hasExt(lower) {
		p := filepath.Join(dir, lower)
		if f, ok := t.byPath[p]; ok {
			return f.Path, true
		}
		// the on-disk spelling may differ in case
		for _, f := range t.byLower[lower] {
			if filepath.Dir(f.Path) == dir {
				return f.Path, true
			}
		}
		return "", false
	}
	for _, f := range t.byStem[lower] {
		if filepath.Dir(f.Path) == dir {
			return f.Path, true
		}
	}
	return "", false
}

// Files returns every discovered file in tree order.
func (t *Tree) Files() []*File {
	var out []*File
	var walk func(d *Dir)
	walk = func(d *Dir) {
		out = append(out, d.Files...)
		for _, sub := range d.Subdirs {
			walk(sub)
		}
	}
	walk(t.Root)
	return out
}

// classifyFile probes the head of a file for its first significant
// word. Anything that does not open with program or unit is treated
// as includable text.
func classifyFile(path string) FileKind {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown
	}
	defer f.Close()
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	switch headWord(buf[:n]) {
	case "program":
		return KindProgram
	case "unit":
		return KindUnit
	default:
		return KindInclude
	}
}

// headWord skips whitespace and comments and returns the first word,
// lower cased.
func headWord(buf []byte) string {
	i := 0
	for i < len(buf) {
		c := buf[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '{':
			for i < len(buf) && buf[i] != '}' {
				i++
			}
			i++
		case c == '(' && i+1 < len(buf) && buf[i+1] == '*':
			i += 2
			for i+1 < len(buf) && !(buf[i] == '*' && buf[i+1] == ')') {
				i++
			}
			i += 2
		default:
			start := i
			for i < len(buf) && isWordByte(buf[i]) {
				i++
			}
			if i == start {
				return ""
			}
			return strings.ToLower(string(buf[start:i]))
		}
	}
	return ""
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
