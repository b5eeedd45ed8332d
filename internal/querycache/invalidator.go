package querycache

import (
	"context"
	"log"
	"sync"
)

// Clearer is the only cache capability the invalidator is allowed to use.
type Clearer interface {
	Clear()
}

// Invalidator fans data-change notifications out to the caches registered
// for the changed table. It knows nothing about the notification transport;
// it only consumes a channel of table names.
type Invalidator struct {
	mu     sync.Mutex
	caches map[string][]Clearer
}

// NewInvalidator creates an empty registry.
func NewInvalidator() *Invalidator {
	return &Invalidator{caches: make(map[string][]Clearer)}
}

// Register associates a cache with a table. A notification for that table
// clears the whole cache instance.
func (i *Invalidator) Register(table string, cache Clearer) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.caches[table] = append(i.caches[table], cache)
}

// Invalidate clears every cache registered for table.
func (i *Invalidator) Invalidate(table string) {
	i.mu.Lock()
	targets := append([]Clearer(nil), i.caches[table]...)
	i.mu.Unlock()

	for _, c := range targets {
		c.Clear()
	}
	if len(targets) > 0 {
		log.Printf("cache_invalidate table=%s caches=%d", table, len(targets))
	}
}

// Run consumes change notifications until the channel closes or the context
// is cancelled.
func (i *Invalidator) Run(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case table, ok := <-changes:
			if !ok {
				return
			}
			i.Invalidate(table)
		}
	}
}
