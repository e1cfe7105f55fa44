// Package cache implements the bounded caches of the memoization core:
// a generic batch-evicting LRU, the theme resolution cache, and the
// element cache.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a bounded least-recently-used map. Once the entry count exceeds
// limit, a batch of the oldest entries is evicted at once, keeping the
// size at or below limit + batch at all times. Both reads and writes mark
// an entry most recently used.
type LRU[K comparable, V any] struct {
	mu    sync.Mutex
	limit int
	batch int
	ll    *list.List // Front = oldest, Back = most recently used
	idx   map[K]*list.Element
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates an LRU with the given size limit and eviction batch.
func NewLRU[K comparable, V any](limit, batch int) *LRU[K, V] {
	if limit <= 0 {
		limit = 1
	}
	if batch <= 0 {
		batch = 1
	}
	return &LRU[K, V]{
		limit: limit,
		batch: batch,
		ll:    list.New(),
		idx:   make(map[K]*list.Element),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.idx[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.ll.MoveToBack(el)
	return el.Value.(*lruEntry[K, V]).value, true
}

// Set inserts or updates key and marks it most recently used. Returns the
// number of entries evicted as a consequence.
func (c *LRU[K, V]) Set(key K, value V) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.idx[key]; ok {
		el.Value.(*lruEntry[K, V]).value = value
		c.ll.MoveToBack(el)
		return 0
	}

	c.idx[key] = c.ll.PushBack(&lruEntry[K, V]{key: key, value: value})
	if c.ll.Len() <= c.limit {
		return 0
	}
	return c.evictOldestLocked(c.batch)
}

// EvictOldest removes up to n of the least-recently-used entries and
// returns how many were removed.
func (c *LRU[K, V]) EvictOldest(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictOldestLocked(n)
}

func (c *LRU[K, V]) evictOldestLocked(n int) int {
	evicted := 0
	for evicted < n {
		front := c.ll.Front()
		if front == nil {
			break
		}
		entry := front.Value.(*lruEntry[K, V])
		delete(c.idx, entry.key)
		c.ll.Remove(front)
		evicted++
	}
	return evicted
}

// Len returns the current entry count.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Clear drops all entries.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.idx = make(map[K]*list.Element)
}
