// internal/pkg/cache/memory.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryCache is an in-process tagged cache used in tests and when the
// gateway runs without Redis.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	tags    map[string]map[string]struct{}
}

// NewMemoryCache creates an in-memory tagged cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
		tags:    make(map[string]map[string]struct{}),
	}
}

// GetJSON retrieves and decodes the entry stored under key
func (c *MemoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return ErrMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes and stores the entry, registering it against each tag
func (c *MemoryCache) SetJSON(_ context.Context, key string, value interface{}, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = data
	for _, tag := range tags {
		if c.tags[tag] == nil {
			c.tags[tag] = make(map[string]struct{})
		}
		c.tags[tag][key] = struct{}{}
	}
	return nil
}

// Invalidate removes every entry registered against the given tags
func (c *MemoryCache) Invalidate(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.tags[tag] {
			delete(c.entries, key)
		}
		delete(c.tags, tag)
	}
	return nil
}
