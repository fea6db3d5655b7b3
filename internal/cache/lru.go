package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a fixed-capacity cache with per-entry TTL. Reads refresh
// recency, not expiry: an entry written once expires ttl after the write no
// matter how often it is read.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	recency *list.List // front = most recently used
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		recency: list.New(),
	}
}

// Get returns the cached value for key. Expired entries are removed on
// access and reported as misses.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		c.evict(elem)
		return zero, false
	}

	c.recency.MoveToFront(elem)
	return e.value, true
}

// Set stores value under key, resetting its TTL. Inserting past capacity
// evicts the least recently used entry.
func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.recency.MoveToFront(elem)
		return
	}

	c.items[key] = c.recency.PushFront(e)
	if c.recency.Len() > c.maxSize {
		if oldest := c.recency.Back(); oldest != nil {
			c.evict(oldest)
		}
	}
}

// Delete removes key if present.
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.evict(elem)
	}
}

// CleanExpired drops every expired entry and returns how many were removed.
// The Manager calls this on its cleanup interval.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for elem := c.recency.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			c.evict(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Size returns the number of entries, expired ones included until a read or
// cleanup removes them.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRUCache[T]) evict(elem *list.Element) {
	delete(c.items, elem.Value.(*entry[T]).key)
	c.recency.Remove(elem)
}
