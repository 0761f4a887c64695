package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string](time.Minute)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("route", "A->B")
	v, ok := c.Get("route")
	assert.True(t, ok)
	assert.Equal(t, "A->B", v)

	c.Delete("route")
	_, ok = c.Get("route")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Close()

	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", 7)
	now = now.Add(59 * time.Second)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entries linger until swept")

	c.removeExpired()
	assert.Equal(t, 0, c.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("shared", i)
			c.Get("shared")
		}(i)
	}
	wg.Wait()

	_, ok := c.Get("shared")
	assert.True(t, ok)
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c := New[int](time.Millisecond)
	c.Close()
	assert.NotPanics(t, c.Close)
}
