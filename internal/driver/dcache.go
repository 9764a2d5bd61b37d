package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file findings on disk, keyed by file and run digests.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached result of analysing one file. Spans are stored
// as offsets into the file; the file ID is reattached on load.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash Digest
	Findings    []CachedFinding
}

type CachedFinding struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// OpenDiskCache initializes a cache under dir, or under the user cache
// location ($XDG_CACHE_HOME/app) when dir is empty.
func OpenDiskCache(app, dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// two-level fan-out keeps directories small
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. Entries written by another schema
// version are reported as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
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
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// findingsToPayload keeps only diagnostics anchored in file.
func findingsToPayload(file *source.File, items []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        file.Path,
		ContentHash: Digest(file.Hash),
		Findings:    make([]CachedFinding, 0, len(items)),
	}
	for _, d := range items {
		if d.Primary.File != file.ID {
			continue
		}
		cf := CachedFinding{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cf.Notes = append(cf.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Findings = append(payload.Findings, cf)
	}
	return payload
}

// payloadToFindings restores diagnostics for file. It returns false when the
// payload was written for different content.
func payloadToFindings(file *source.File, payload *DiskPayload) ([]diag.Diagnostic, bool) {
	if payload == nil || payload.Schema != diskCacheSchemaVersion || payload.ContentHash != Digest(file.Hash) {
		return nil, false
	}
	span := func(start, end uint32) source.Span {
		return source.Span{File: file.ID, Start: start, End: end}
	}
	out := make([]diag.Diagnostic, 0, len(payload.Findings))
	for _, cf := range payload.Findings {
		d := diag.Diagnostic{
			Severity: diag.Severity(cf.Severity),
			Code:     diag.Code(cf.Code),
			Message:  cf.Message,
			Primary:  span(cf.Start, cf.End),
		}
		for _, n := range cf.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		out = append(out, d)
	}
	return out, true
}
