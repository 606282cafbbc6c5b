package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	cache := NewCache[string](time.Minute)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("greeting", "olá")
	value, ok := cache.Get("greeting")
	assert.True(t, ok)
	assert.Equal(t, "olá", value)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache[int](10 * time.Millisecond)

	cache.Set("n", 42)
	_, ok := cache.Get("n")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get("n")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache[int](time.Minute)

	cache.Set("modules:active", 1)
	cache.Set("modules:all", 2)
	cache.Set("orgs:active", 3)

	cache.Invalidate("modules:active")
	_, ok := cache.Get("modules:active")
	assert.False(t, ok)
	_, ok = cache.Get("modules:all")
	assert.True(t, ok)

	cache.InvalidatePrefix("modules:")
	_, ok = cache.Get("modules:all")
	assert.False(t, ok)
	_, ok = cache.Get("orgs:active")
	assert.True(t, ok)

	cache.Clear()
	_, ok = cache.Get("orgs:active")
	assert.False(t, ok)
}
