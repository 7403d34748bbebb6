package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pending:v1:"

// RedisCache stores pending transfers in Redis. Entries carry a server-side
// expiry matching the logical TTL so abandoned sessions are evicted instead
// of accumulating; the age check in TakeIfFresh remains authoritative.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a Redis-backed cache whose entries auto-expire after
// ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Put stages a transfer, overwriting any prior entry for the identity.
func (c *RedisCache) Put(ctx context.Context, t Transfer) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode pending transfer: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+t.Identity, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("store pending transfer: %w", err)
	}
	return nil
}

// Peek reads the staged transfer without consuming it.
func (c *RedisCache) Peek(ctx context.Context, identity string) (Transfer, error) {
	raw, err := c.client.Get(ctx, keyPrefix+identity).Result()
	if errors.Is(err, redis.Nil) {
		return Transfer{}, ErrNotFound
	}
	if err != nil {
		return Transfer{}, fmt.Errorf("read pending transfer: %w", err)
	}
	return decode(raw)
}

// TakeIfFresh removes and returns the staged transfer. GETDEL makes the
// remove-and-return step atomic, so two concurrent confirms cannot both
// observe a live entry.
func (c *RedisCache) TakeIfFresh(ctx context.Context, identity string, ttl time.Duration) (Transfer, error) {
	raw, err := c.client.GetDel(ctx, keyPrefix+identity).Result()
	if errors.Is(err, redis.Nil) {
		return Transfer{}, ErrNotFound
	}
	if err != nil {
		return Transfer{}, fmt.Errorf("take pending transfer: %w", err)
	}

	t, err := decode(raw)
	if err != nil {
		return Transfer{}, err
	}
	if time.Since(t.CreatedAt) > ttl {
		return Transfer{}, ErrExpired
	}
	return t, nil
}

// Clear removes any staged transfer and reports whether one existed.
func (c *RedisCache) Clear(ctx context.Context, identity string) (bool, error) {
	removed, err := c.client.Del(ctx, keyPrefix+identity).Result()
	if err != nil {
		return false, fmt.Errorf("clear pending transfer: %w", err)
	}
	return removed > 0, nil
}

func decode(raw string) (Transfer, error) {
	var t Transfer
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Transfer{}, fmt.Errorf("decode pending transfer: %w", err)
	}
	return t, nil
}
