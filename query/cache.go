// ABOUTME: Query cache keyed by string-slice keys with in-flight deduplication and prefix invalidation.
// ABOUTME: Consistency discipline is invalidate-then-refetch; mutations never patch cached values in place.
package query

import (
	"context"
	"strings"
	"sync"
)

// keySep separates key segments in the flattened cache key. Unit separator
// keeps entity names containing "/" unambiguous.
const keySep = "\x1f"

// Key identifies a cached query: entity name first, filter parameters after
// (e.g. Key{"materialy", "is_active=true"}). Keys sharing a prefix are
// invalidated together.
type Key []string

// String flattens the key into the internal map key.
func (k Key) String() string {
	return strings.Join(k, keySep)
}

// HasPrefix reports whether k starts with the given prefix key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// FetchFunc loads fresh data for a cache key.
type FetchFunc func(ctx context.Context) (any, error)

// call tracks one in-flight fetch so identical concurrent requests share it.
type call struct {
	done chan struct{}
	val  any
	err  error
}

// Cache deduplicates reads by key and serves cached values until invalidated.
// Errors are never cached. Writes are not serialized: two mutations fired in
// quick succession each resolve independently and each invalidates on its own.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]any
	inflight map[string]*call
}

// NewCache creates an empty query cache.
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]any),
		inflight: make(map[string]*call),
	}
}

// Fetch returns the cached value for key, or runs fn to load it. Identical
// in-flight fetches are deduplicated: late arrivals block on the first call's
// result instead of issuing their own request.
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	ks := key.String()

	c.mu.Lock()
	if val, ok := c.entries[ks]; ok {
		c.mu.Unlock()
		return val, nil
	}
	if cl, ok := c.inflight[ks]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.val, cl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[ks] = cl
	c.mu.Unlock()

	val, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, ks)
	if err == nil {
		c.entries[ks] = val
	}
	c.mu.Unlock()

	cl.val = val
	cl.err = err
	close(cl.done)

	return val, err
}

// Refresh drops the key and fetches fresh data in one step.
func (c *Cache) Refresh(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	c.Invalidate(key)
	return c.Fetch(ctx, key, fn)
}

// Peek returns the cached value for key without fetching.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.entries[key.String()]
	return val, ok
}

// Invalidate drops every cached entry whose key starts with prefix.
// Mutations call this on success, so the next read re-fetches.
func (c *Cache) Invalidate(prefix Key) {
	pfx := prefix.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	for ks := range c.entries {
		if ks == pfx || strings.HasPrefix(ks, pfx+keySep) {
			delete(c.entries, ks)
		}
	}
}

// InvalidateAll drops every cached entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
