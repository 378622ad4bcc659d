package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryCache is a thread-safe in-memory cache. Entries never expire.
type InMemoryCache struct {
	entries map[string]Entry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Lookup retrieves an entry from the cache.
func (c *InMemoryCache) Lookup(_ context.Context, key string) (*Entry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Store writes an entry, merging with any existing one.
func (c *InMemoryCache) Store(_ context.Context, entry Entry) error {
	incoming := stamp(entry, c.now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[entry.Key]; ok {
		existing.Merge(incoming)
		c.entries[entry.Key] = existing
		return nil
	}
	c.entries[entry.Key] = incoming
	return nil
}

// Len returns the number of entries in the cache.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Entries returns all entries sorted by key.
// This is used for cache export.
func (c *InMemoryCache) Entries(_ context.Context) ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}
