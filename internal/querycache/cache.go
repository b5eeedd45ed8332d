// Package querycache provides the bounded, time-expiring result caches that
// sit between the HTTP handlers and the database. One Cache instance exists
// per data family (directory searches, area suggestions); instances never
// share keys or configuration.
package querycache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Config carries the per-family cache settings.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.TTL)
	}
	if c.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got %d", c.MaxEntries)
	}
	return nil
}

type entry[V any] struct {
	key        string
	value      V
	createdAt  time.Time
	lastAccess time.Time
	hits       int
}

// Cache is a TTL + LRU keyed cache. Expiry is lazy: an entry older than the
// TTL is treated as absent on read and removed then, never served. Inserting
// at capacity evicts the entry with the oldest last-access time.
type Cache[V any] struct {
	mu      sync.Mutex
	cfg     Config
	now     func() time.Time
	entries map[string]*list.Element
	order   *list.List // front = most recently accessed

	hits   int64
	misses int64
}

// New constructs a cache for one data family.
func New[V any](cfg Config) (*Cache[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Cache[V]{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached value for key if present and fresh. A stale entry
// counts as a miss and is dropped; a hit refreshes the entry's recency.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	ent := el.Value.(*entry[V])
	if c.now().Sub(ent.createdAt) >= c.cfg.TTL {
		c.removeLocked(el)
		c.misses++
		return zero, false
	}

	ent.lastAccess = c.now()
	ent.hits++
	c.order.MoveToFront(el)
	c.hits++
	return ent.value, true
}

// Set inserts or replaces the value for key. When the cache is full the
// entry with the oldest last-access time is evicted first.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.createdAt = now
		ent.lastAccess = now
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.cfg.MaxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	el := c.order.PushFront(&entry[V]{
		key:        key,
		value:      value,
		createdAt:  now,
		lastAccess: now,
	})
	c.entries[key] = el
}

// Delete removes a single key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
}

// Clear drops every entry. Invalidation is coarse-grained on purpose:
// clearing too much is acceptable, serving stale data is not.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len reports the current number of entries, stale ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats reports cumulative hit/miss counters for log lines.
func (c *Cache[V]) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	ent := el.Value.(*entry[V])
	delete(c.entries, ent.key)
	c.order.Remove(el)
}
