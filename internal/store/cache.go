package store

import (
	lru "github.com/hashicorp/golang-lru"
)

// Cache provides in-memory caching for blobs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte)
	Has(key string) bool
	Remove(key string)
	Clear()
}

// LRUCache keeps the most recently used blobs in memory.
type LRUCache struct {
	c *lru.Cache // hash -> []byte
}

// NewLRUCache creates a cache holding up to maxSize blobs.
func NewLRUCache(maxSize int) (*LRUCache, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRUCache{c: c}, nil
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *LRUCache) Add(key string, value []byte) { c.c.Add(key, value) }
func (c *LRUCache) Has(key string) bool          { return c.c.Contains(key) }
func (c *LRUCache) Remove(key string)            { c.c.Remove(key) }
func (c *LRUCache) Clear()                       { c.c.Purge() }

// Len returns the number of cached blobs.
func (c *LRUCache) Len() int { return c.c.Len() }

// noCache is used when caching is turned off.
type noCache struct{}

func (noCache) Get(string) ([]byte, bool) { return nil, false }
func (noCache) Add(string, []byte)        {}
func (noCache) Has(string) bool           { return false }
func (noCache) Remove(string)             {}
func (noCache) Clear()                    {}
