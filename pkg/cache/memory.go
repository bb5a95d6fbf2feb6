package cache

import (
	"context"
	"sync"
	"time"
)

const defaultMemoryTTL = 24 * time.Hour

type memoryItem struct {
	data       []byte
	expireAt   time.Time
	lastAccess time.Time
}

// MemoryCache is the in-process Service backend. It caps the entry count
// with least-recently-used eviction and sweeps expired entries on a timer.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*memoryItem
	maxSize int
	sweeper *time.Ticker
	done    chan struct{}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		items:   make(map[string]*memoryItem),
		maxSize: cfg.MaxSize,
		sweeper: time.NewTicker(cfg.CleanupInterval),
		done:    make(chan struct{}),
	}

	go mc.sweepLoop()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}

	now := time.Now()
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, ok := mc.items[key]; !ok && len(mc.items) >= mc.maxSize {
		mc.evictOldest()
	}
	mc.items[key] = &memoryItem{
		data:       data,
		expireAt:   now.Add(expiration),
		lastAccess: now,
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	item, ok := mc.items[key]
	if !ok {
		mc.mu.Unlock()
		return ErrCacheMiss
	}
	if time.Now().After(item.expireAt) {
		delete(mc.items, key)
		mc.mu.Unlock()
		return ErrCacheMiss
	}
	item.lastAccess = time.Now()
	data := item.data
	mc.mu.Unlock()

	return decodeValue(data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.items, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	now := time.Now()
	for _, key := range keys {
		if item, ok := mc.items[key]; ok && now.Before(item.expireAt) {
			return true, nil
		}
	}
	return false, nil
}

// evictOldest drops the least recently used entry. Caller holds mc.mu.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, item := range mc.items {
		if oldestKey == "" || item.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.lastAccess
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
	}
}

func (mc *MemoryCache) sweepLoop() {
	for {
		select {
		case <-mc.sweeper.C:
			now := time.Now()
			mc.mu.Lock()
			for key, item := range mc.items {
				if now.After(item.expireAt) {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		case <-mc.done:
			return
		}
	}
}

// Close stops the sweep goroutine.
func (mc *MemoryCache) Close() error {
	mc.sweeper.Stop()
	close(mc.done)
	return nil
}

var _ Service = (*MemoryCache)(nil)
