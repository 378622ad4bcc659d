package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key written by the Redis cache.
const DefaultKeyPrefix = "relay:"

// RedisCache is a Redis-backed translation cache. Entries are stored as JSON documents.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "relay:")
}

// NewRedisCache creates a new Redis cache with the given configuration.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisCacheFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// Lookup retrieves an entry from Redis.
func (c *RedisCache) Lookup(ctx context.Context, key string) (*Entry, error) {
	return c.get(ctx, c.client, c.keyPrefix+key)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *RedisCache) get(ctx context.Context, r stringGetter, fullKey string) (*Entry, error) {
	val, err := r.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", fullKey, err)
	}

	var entry Entry
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("decoding entry %s: %w", fullKey, err)
	}
	return &entry, nil
}

// maxStoreAttempts bounds how often Store retries when the key changes under its WATCH.
const maxStoreAttempts = 3

// Store writes an entry to Redis, merging with any existing entry. The read and the write run
// under WATCH so a concurrent writer forces a retry instead of being overwritten.
func (c *RedisCache) Store(ctx context.Context, entry Entry) error {
	incoming := stamp(entry, c.now())
	fullKey := c.keyPrefix + entry.Key

	txf := func(tx *redis.Tx) error {
		merged := incoming
		existing, err := c.get(ctx, tx, fullKey)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Merge(incoming)
			merged = *existing
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encoding entry: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, fullKey, string(data), 0)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxStoreAttempts; attempt++ {
		err = c.client.Watch(ctx, txf, fullKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("redis store %s: %w", fullKey, err)
	}
	return nil
}

// Entries scans every key under the prefix and returns the decoded entries.
func (c *RedisCache) Entries(ctx context.Context) ([]Entry, error) {
	var (
		cursor  uint64
		entries []Entry
	)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}

		for _, fullKey := range keys {
			entry, err := c.get(ctx, c.client, fullKey)
			if err != nil {
				return nil, err
			}
			if entry == nil {
				continue
			}
			if entry.Key == "" {
				entry.Key = strings.TrimPrefix(fullKey, c.keyPrefix)
			}
			entries = append(entries, *entry)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return entries, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Verify RedisCache implements Store
var _ Store = (*RedisCache)(nil)
