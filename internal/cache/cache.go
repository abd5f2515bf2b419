// Package cache wraps an in-memory byte cache used by read-heavy services.
package cache

import (
	"github.com/coocood/freecache"
)

// Cache is a byte-oriented cache with TTL semantics.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
}

type memCache struct {
	cache *freecache.Cache
	ttl   int
}

// New returns a freecache-backed Cache of sizeMB megabytes with the given
// TTL in seconds. A non-positive size disables caching entirely.
func New(sizeMB, ttlSeconds int) Cache {
	if sizeMB <= 0 {
		return &noopCache{}
	}
	return &memCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttlSeconds,
	}
}

func (c *memCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *memCache) Set(key string, value []byte) {
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

func (c *memCache) Del(key string) {
	c.cache.Del([]byte(key))
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Del(_ string)                {}
