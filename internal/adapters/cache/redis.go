package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "caption:"

// RedisCache shares extracted captions across server replicas. Same
// contract as MemoryCache; Redis enforces the TTL, maxmemory policy on the
// server covers the capacity bound.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	opTime time.Duration
}

// NewRedisCache connects to Redis and verifies connectivity.
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
		opTime: 2 * time.Second,
	}, nil
}

// Get retrieves the cached caption for a shortcode.
func (c *RedisCache) Get(shortcode string) (*domain.CachedCaption, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTime)
	defer cancel()

	raw, err := c.client.Get(ctx, redisKeyPrefix+shortcode).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.GlobalWarn("redis cache read failed", "shortcode", shortcode, "error", err)
		}
		return nil, false
	}

	var entry domain.CachedCaption
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.GlobalWarn("redis cache entry corrupt", "shortcode", shortcode, "error", err)
		return nil, false
	}
	return &entry, true
}

// Set stores a caption with the configured TTL. Cache failures are logged
// and swallowed; a dead cache must not fail an extraction that succeeded.
func (c *RedisCache) Set(shortcode string, entry *domain.CachedCaption) {
	raw, err := json.Marshal(entry)
	if err != nil {
		log.GlobalWarn("redis cache marshal failed", "shortcode", shortcode, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opTime)
	defer cancel()
	if err := c.client.Set(ctx, redisKeyPrefix+shortcode, raw, c.ttl).Err(); err != nil {
		log.GlobalWarn("redis cache write failed", "shortcode", shortcode, "error", err)
	}
}

// Len counts live caption keys. Scan-based; approximate under concurrent
// writes, which is fine for the health probe it feeds.
func (c *RedisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTime)
	defer cancel()

	var total int
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, redisKeyPrefix+"*", 500).Result()
		if err != nil {
			return total
		}
		total += len(keys)
		if next == 0 {
			return total
		}
		cursor = next
	}
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
