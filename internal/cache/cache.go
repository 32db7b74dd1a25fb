package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tier is the facade spec.md §4.4 describes: an in-memory tier for
// same-process reuse backed by a persistent file tier keyed by URL (or
// variant-key) hash. Every method swallows filesystem errors into a
// negative result rather than propagating them, so a degraded cache never
// breaks the annotation pipeline.
type Tier struct {
	mem   *Memory
	files *FileStore
}

// Options configures a Tier.
type Options struct {
	// Location is the persistent tier's directory; a leading "~" expands to
	// the user's home directory.
	Location string
	// MaxSize is the persistent tier's total size cap in bytes (0 = unbounded).
	MaxSize int64
	// TTL applies to both tiers; 0 means entries never expire.
	TTL time.Duration
	// MemoryEntries bounds the in-memory tier's entry count.
	MemoryEntries int
}

// New builds a two-tier cache per opts. The persistent directory is created
// if it doesn't exist.
func New(opts Options) (*Tier, error) {
	location, err := expandHome(opts.Location)
	if err != nil {
		return nil, fmt.Errorf("resolve cache location: %w", err)
	}

	files, err := NewFileStore(location, opts.TTL, opts.MaxSize)
	if err != nil {
		return nil, err
	}

	memEntries := opts.MemoryEntries
	if memEntries <= 0 {
		memEntries = 1000
	}

	return &Tier{
		mem:   NewMemory(memEntries, opts.TTL),
		files: files,
	}, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Get checks the in-memory tier first, then the persistent tier (promoting
// a persistent hit back into memory). A miss on both tiers returns ok=false,
// never an error.
func (t *Tier) Get(key string) (payload []byte, ok bool) {
	if payload, ok := t.mem.Get(key); ok {
		return payload, true
	}
	payload, ok = t.files.Get(key)
	if ok {
		t.mem.Set(key, payload)
	}
	return payload, ok
}

// Has reports whether key is present (and unexpired) in either tier.
func (t *Tier) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Set writes payload to both tiers. A persistent-tier write failure is
// swallowed (spec.md §4.4: "all filesystem errors are swallowed into
// null/false returns"); the in-memory tier still serves the value for the
// rest of the process's lifetime.
func (t *Tier) Set(key string, payload []byte) {
	t.mem.Set(key, payload)
	_ = t.files.Set(key, payload)
}

// Delete evicts key from both tiers.
func (t *Tier) Delete(key string) {
	t.mem.Remove(key)
	_ = t.files.Remove(key)
}

// Clear empties both tiers.
func (t *Tier) Clear() {
	t.mem.Purge()
	_ = t.files.Clear()
}

// CacheStats reports the persistent tier's occupancy alongside its
// configured cap and location, per spec.md §4.4's getStats contract:
// {validEntries, expiredEntries, totalSize, maxSize, location}.
type CacheStats struct {
	ValidEntries   int
	ExpiredEntries int
	TotalSize      int64
	MaxSize        int64
	Location       string
}

// GetStats reports the persistent tier's current occupancy. Filesystem
// errors collapse to a zero-valued Stats rather than propagating.
func (t *Tier) GetStats() CacheStats {
	stats, err := t.files.Stats()
	if err != nil {
		stats = Stats{}
	}
	return CacheStats{
		ValidEntries:   stats.Entries,
		ExpiredEntries: stats.ExpiredEntries,
		TotalSize:      stats.TotalSize,
		MaxSize:        t.files.maxSize,
		Location:       t.files.dir,
	}
}
