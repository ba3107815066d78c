// Package cache provides a small in-process TTL cache used to memoize the
// fund directory and the gateway bearer token. It holds a handful of keys
// at most and deliberately has no capacity bound or eviction policy beyond
// expiry; it is not a general-purpose cache.
package cache

import (
	"sync"
	"time"
)

// TTL tiers for the cached resources.
const (
	// TTLDirectory covers the full fund directory: large, slow-changing.
	TTLDirectory = 24 * time.Hour
	// TTLToken covers the gateway OAuth2 bearer token.
	TTLToken = time.Hour
)

type entry struct {
	value    any
	expireAt time.Time
}

// Cache is a concurrency-safe TTL cache. The zero value is not usable;
// construct with New. The clock is injectable so tests control time.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New returns a Cache using the real clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Cache with a caller-supplied clock.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the value for key, or false when the key is absent or has
// expired. An expired entry is evicted on read; a read exactly at the
// expiry instant is still a hit.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expireAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl, overwriting any previous entry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:    value,
		expireAt: c.now().Add(ttl),
	}
}

// Delete removes key, if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
