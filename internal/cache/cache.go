package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-serialisable values under string keys with a TTL
type Cache interface {
	Marshal(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Unmarshal(ctx context.Context, key string, target interface{}) (bool, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type item struct {
	data       []byte
	expiration int64
}

// Memory is an in-process cache; expired items are dropped lazily on read
// and on every write.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]item),
		now:   time.Now,
	}
}

// Marshal serialises value and stores it under key
func (c *Memory) Marshal(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for k, it := range c.items {
		if now > it.expiration {
			delete(c.items, k)
		}
	}

	c.items[key] = item{
		data:       data,
		expiration: c.now().Add(ttl).UnixNano(),
	}
	return nil
}

// Unmarshal loads key into target. It reports false on a miss or expiry.
func (c *Memory) Unmarshal(_ context.Context, key string, target interface{}) (bool, error) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	if !found || c.now().UnixNano() > it.expiration {
		return false, nil
	}

	if err := json.Unmarshal(it.data, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// DeleteByPrefix removes all keys starting with prefix
func (c *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// Size returns the number of stored items, expired or not
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Redis is a cache shared between storefront instances
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed cache; every key is namespaced by prefix
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Marshal serialises value and stores it under key with ttl
func (c *Redis) Marshal(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key: %w", err)
	}
	return nil
}

// Unmarshal loads key into target. It reports false on a miss.
func (c *Redis) Unmarshal(ctx context.Context, key string, target interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// DeleteByPrefix removes all keys starting with prefix
func (c *Redis) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.prefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}
