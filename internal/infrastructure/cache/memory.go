// Package cache provides density-record caches: an in-process TTL map and a
// Redis-backed implementation sharing the same interface.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/platewise/backend/internal/domain"
)

// memoryItem holds one cached lookup result. A nil record is a cached
// negative result.
type memoryItem struct {
	record     *domain.DensityRecord
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory density cache with TTL support.
type MemoryCache struct {
	data  map[string]memoryItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache and starts a cleanup goroutine
// that removes expired entries every 10 minutes.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]memoryItem),
	}
	go c.cleanupExpired()
	return c
}

// Get retrieves a cached density record. found=true with a nil record means a
// negative result was cached for this name.
func (c *MemoryCache) Get(_ context.Context, name string) (*domain.DensityRecord, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[name]
	if !exists || time.Now().After(item.expiration) {
		return nil, false, nil
	}
	if item.record == nil {
		return nil, true, nil
	}
	// Copy so callers cannot mutate the cached record.
	rec := *item.record
	return &rec, true, nil
}

// Set stores a density record (or a nil negative result) with a TTL.
func (c *MemoryCache) Set(_ context.Context, name string, record *domain.DensityRecord, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var stored *domain.DensityRecord
	if record != nil {
		rec := *record
		stored = &rec
	}
	c.data[name] = memoryItem{
		record:     stored,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// cleanupExpired removes expired entries from the cache periodically.
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]memoryItem)
}
