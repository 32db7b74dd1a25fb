package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is the in-memory cache tier: a bounded, TTL-expiring LRU keyed by
// VariantKey string, holding raw JSON annotation payloads (spec.md §4.4,
// tier 1). It never touches disk; entries are evicted purely by size and
// age, making it the right tier for hot repeated lookups within a single
// batch run.
type Memory struct {
	lru *lru.LRU[string, []byte]
}

// NewMemory creates an in-memory cache tier holding up to maxEntries items,
// each expiring ttl after insertion.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return &Memory{lru: lru.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

// Get returns the cached payload for key, if present and unexpired.
func (m *Memory) Get(key string) ([]byte, bool) {
	return m.lru.Get(key)
}

// Set stores payload for key, evicting the least-recently-used entry if the
// tier is at capacity.
func (m *Memory) Set(key string, payload []byte) {
	m.lru.Add(key, payload)
}

// Remove evicts key, if present.
func (m *Memory) Remove(key string) {
	m.lru.Remove(key)
}

// Len reports the current number of live (unexpired) entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}

// Purge empties the tier.
func (m *Memory) Purge() {
	m.lru.Purge()
}
