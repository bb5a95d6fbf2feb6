package cache

import (
	"sync"
	"time"
)

type item struct {
	b         []byte
	expiresAt int64 // unix nanos, 0 means no expiry
}

// TTLCache is the in-process fallback used when Redis is not configured.
// Expired items are dropped lazily on read.
type TTLCache struct {
	mu    sync.RWMutex
	items map[string]item
}

func NewTTLCache() *TTLCache {
	return &TTLCache{items: make(map[string]item)}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if it.expiresAt != 0 && time.Now().UnixNano() > it.expiresAt {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return it.b, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	c.mu.Lock()
	c.items[key] = item{b: value, expiresAt: exp}
	c.mu.Unlock()
	return nil
}
