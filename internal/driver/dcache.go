package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pasnav/internal/source"
)

// Digest is a SHA-256 content hash, the cache key.
type Digest = [32]byte

// bump when the payload format changes
const scanCacheSchemaVersion uint16 = 1

// ScanCache persists uses pre-scan results on disk, keyed by file
// content hash, so reloading a large unchanged project skips the
// per-file dependency scan. Thread-safe.
type ScanCache struct {
	mu  sync.RWMutex
	dir string
}

// scanPayload is the serialized pre-scan result for one file.
type scanPayload struct {
	Schema uint16
	Path   string
	Names  []string
	Starts []uint32
	Ends   []uint32
}

// OpenScanCache initializes the cache at the standard location.
func OpenScanCache(app string) (*ScanCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ScanCache{dir: dir}, nil
}

// OpenScanCacheAt initializes the cache at an explicit directory.
func OpenScanCacheAt(dir string) (*ScanCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ScanCache{dir: dir}, nil
}

func (c *ScanCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "scans", hex.EncodeToString(key[:])+".mp")
}

// Put serializes one file's pre-scan result.
func (c *ScanCache) Put(key Digest, path string, uses []Use) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := scanPayload{
		Schema: scanCacheSchemaVersion,
		Path:   path,
		Names:  make([]string, len(uses)),
		Starts: make([]uint32, len(uses)),
		Ends:   make([]uint32, len(uses)),
	}
	for i, u := range uses {
		payload.Names[i] = u.Name
		payload.Starts[i] = u.Span.Start
		payload.Ends[i] = u.Span.End
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get returns the cached pre-scan result, rebinding spans to the
// given file. A schema or path mismatch counts as a miss.
func (c *ScanCache) Get(key Digest, file source.FileID, path string) ([]Use, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload scanPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != scanCacheSchemaVersion || payload.Path != path {
		return nil, false
	}
	uses := make([]Use, len(payload.Names))
	for i := range payload.Names {
		uses[i] = Use{
			Name: payload.Names[i],
			Span: source.Span{File: file, Start: payload.Starts[i], End: payload.Ends[i]},
		}
	}
	return uses, true
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *ScanCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
