package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps encoded analyses and law retrieval memos in process.
// It fronts DiskCache in LayeredCache and backs the pipeline's per-run
// retrieval memo on its own.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache returns a memory cache whose entries live for defaultTTL
// unless Set names another ttl. Expired entries are swept every sweep.
func NewMemoryCache(defaultTTL, sweep time.Duration) *MemoryCache {
	return &MemoryCache{entries: gocache.New(defaultTTL, sweep)}
}

// Get returns the stored bytes for key. A non-byte entry counts as a miss.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	v, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

// Set stores a private copy of value, so a caller reusing its encode buffer
// cannot rewrite a cached analysis. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Set(key, stored, ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear drops every analysis and memo entry
func (c *MemoryCache) Clear() error {
	c.entries.Flush()
	return nil
}

// Len counts entries, including expired ones the sweeper has not reached
func (c *MemoryCache) Len() int {
	return c.entries.ItemCount()
}
