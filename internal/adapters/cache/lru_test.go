package cache_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/adapters/cache"
)

func TestLRU_EvictsOldestInBatches(t *testing.T) {
	lru := cache.NewLRU[string, int](5, 2)

	for i := range 5 {
		assert.Zero(t, lru.Set(fmt.Sprintf("k%d", i), i))
	}
	require.Equal(t, 5, lru.Len())

	// The insert that crosses the limit evicts a whole batch at once.
	evicted := lru.Set("k5", 5)
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 4, lru.Len())

	// The two oldest entries are the ones that went.
	_, ok := lru.Get("k0")
	assert.False(t, ok)
	_, ok = lru.Get("k1")
	assert.False(t, ok)
	_, ok = lru.Get("k2")
	assert.True(t, ok)
}

func TestLRU_GetRefreshesRecency(t *testing.T) {
	lru := cache.NewLRU[string, int](3, 1)

	lru.Set("a", 1)
	lru.Set("b", 2)
	lru.Set("c", 3)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := lru.Get("a")
	require.True(t, ok)

	lru.Set("d", 4)
	_, ok = lru.Get("b")
	assert.False(t, ok)
	_, ok = lru.Get("a")
	assert.True(t, ok)
}

func TestLRU_UpdateDoesNotGrow(t *testing.T) {
	lru := cache.NewLRU[string, int](2, 1)

	lru.Set("a", 1)
	lru.Set("b", 2)
	assert.Zero(t, lru.Set("a", 10))
	assert.Equal(t, 2, lru.Len())

	v, ok := lru.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestLRU_SizeNeverExceedsLimit(t *testing.T) {
	lru := cache.NewLRU[int, int](10, 3)

	for i := range 200 {
		lru.Set(i, i)
		assert.LessOrEqual(t, lru.Len(), 10)
	}
}

func TestLRU_EvictOldestAndClear(t *testing.T) {
	lru := cache.NewLRU[int, int](10, 3)
	for i := range 6 {
		lru.Set(i, i)
	}

	assert.Equal(t, 4, lru.EvictOldest(4))
	assert.Equal(t, 2, lru.Len())

	// Asking for more than remains is not an error.
	assert.Equal(t, 2, lru.EvictOldest(10))
	assert.Zero(t, lru.Len())

	lru.Set(1, 1)
	lru.Clear()
	assert.Zero(t, lru.Len())
}
