package tables

import (
	"context"
	"sync"
)

// Loader produces a fresh Store from an external source.
type Loader func(ctx context.Context) (*Store, error)

// Cache loads the tables once and serves the same Store until Reload is called.
type Cache struct {
	mu    sync.RWMutex
	load  Loader
	store *Store
}

// NewCache returns a Cache backed by the given loader. Nothing is loaded yet.
func NewCache(load Loader) *Cache {
	return &Cache{load: load}
}

// Get returns the cached Store, loading it on first use.
func (c *Cache) Get(ctx context.Context) (*Store, error) {
	c.mu.RLock()
	s := c.store
	c.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		return c.store, nil
	}
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.store = s
	return s, nil
}

// Reload replaces the cached Store with a freshly loaded one.
// On failure the previous Store stays in place.
func (c *Cache) Reload(ctx context.Context) (*Store, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store = s
	c.mu.Unlock()
	return s, nil
}

// Loaded reports whether a Store is currently cached.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store != nil
}
