package hourscache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/activity-finder/internal/domain/activity"
)

type cacheEntry struct {
	record    activity.HoursRecord
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache for opening hours.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get implements activity.HoursCache.
func (c *MemoryCache) Get(_ context.Context, key string) (activity.HoursRecord, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return activity.HoursRecord{}, false, nil
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return activity.HoursRecord{}, false, nil
	}
	return entry.record, true, nil
}

// Set implements activity.HoursCache.
func (c *MemoryCache) Set(_ context.Context, key string, record activity.HoursRecord, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = cacheEntry{record: record, expiresAt: exp}
	return nil
}

var _ activity.HoursCache = (*MemoryCache)(nil)
