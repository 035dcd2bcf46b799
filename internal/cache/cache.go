// Package cache provides a small generic time-to-live cache. Entries expire
// lazily on read; there is no background cleanup goroutine, matching the
// single-request processing model of the rest of the system.
package cache

import (
	"sync"
	"time"
)

// Cache defines a generic cache interface.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Purge()
	Size() int
}

type item[T any] struct {
	data      T
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map cache where every entry lives for a fixed
// duration after being set.
type TTLCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]item[T]
}

var _ Cache[int] = (*TTLCache[int])(nil)

func NewTTL[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:   ttl,
		items: make(map[string]item[T]),
	}
}

// Get retrieves a value. An expired entry is removed and reported as a miss.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	it, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(it.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return it.data, true
}

// Set stores a value and resets its TTL window.
func (c *TTLCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

// Delete removes a single key.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Purge removes every entry.
func (c *TTLCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item[T])
}

// Size returns the number of entries, expired ones included.
func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
