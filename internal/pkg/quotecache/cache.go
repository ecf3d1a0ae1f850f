// internal/pkg/quotecache/cache.go
package quotecache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Entry is one cached unit cost, keyed by quote key. Entries exist purely
// to collapse duplicate provider calls for identical configurations within
// a short window; they are never authoritative at checkout time.
type Entry struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
	Currency string          `json:"currency"`
}

// Cache stores quote entries under their quote key with a TTL.
// Implemented by RedisCache (prod) and MemoryCache (dev/tests).
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

// redisKey namespaces quote entries in Redis.
func redisKey(key string) string {
	return fmt.Sprintf("quote:%s", key)
}

// RedisCache stores quote entries in Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed quote cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a cached entry. A Redis read failure is reported as a miss
// with the error attached so callers can fall through to the provider.
func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	data, err := c.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, false, err
	}
	return &entry, true, nil
}

// Set stores an entry with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKey(key), data, ttl).Err()
}

// MemoryCache is an in-process quote cache for development and tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory quote cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a cached entry if it has not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (*Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, ok := c.entries[key]
	if !ok || time.Now().After(stored.expiresAt) {
		return nil, false, nil
	}
	entry := stored.entry
	return &entry, true, nil
}

// Set stores an entry with the given TTL.
func (c *MemoryCache) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		entry:     entry,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
