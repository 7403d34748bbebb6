package pending

import (
	"context"
	"sync"
	"time"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]Transfer
}

// NewMemoryCache constructs an in-memory cache for tests and development
// mode. All operations hold one mutex, so takes are atomic per identity.
func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string]Transfer)}
}

func (c *memoryCache) Put(_ context.Context, t Transfer) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[t.Identity] = t
	return nil
}

func (c *memoryCache) Peek(_ context.Context, identity string) (Transfer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[identity]
	if !ok {
		return Transfer{}, ErrNotFound
	}
	return t, nil
}

func (c *memoryCache) TakeIfFresh(_ context.Context, identity string, ttl time.Duration) (Transfer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[identity]
	if !ok {
		return Transfer{}, ErrNotFound
	}
	delete(c.entries, identity)
	if time.Since(t.CreatedAt) > ttl {
		return Transfer{}, ErrExpired
	}
	return t, nil
}

func (c *memoryCache) Clear(_ context.Context, identity string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[identity]
	delete(c.entries, identity)
	return ok, nil
}
