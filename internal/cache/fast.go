package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"show-status/internal/redis"
)

// RedisFastTier adapts the Redis client wrapper to the FastTier contract.
// Redis errors other than a missing key surface as Unavailable.
type RedisFastTier struct {
	client *redis.Client
}

func NewRedisFastTier(client *redis.Client) *RedisFastTier {
	return &RedisFastTier{client: client}
}

func (t *RedisFastTier) Get(ctx context.Context, key string) ([]byte, Outcome) {
	data, err := t.client.Get(ctx, key)
	if err == redis.Nil {
		return nil, Miss
	}
	if err != nil {
		return nil, Unavailable
	}
	return data, Hit
}

func (t *RedisFastTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return t.client.Set(ctx, key, value, ttl)
}

func (t *RedisFastTier) Delete(ctx context.Context, key string) error {
	return t.client.Delete(ctx, key)
}

// LocalFastTier is an in-process fast tier backed by go-cache, for
// single-node deployments and tests. It never reports Unavailable.
type LocalFastTier struct {
	cache *gocache.Cache
}

// NewLocalFastTier creates an in-process fast tier. cleanupInterval controls
// how often expired entries are physically removed; reads respect expiry
// regardless.
func NewLocalFastTier(cleanupInterval time.Duration) *LocalFastTier {
	return &LocalFastTier{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (t *LocalFastTier) Get(ctx context.Context, key string) ([]byte, Outcome) {
	value, found := t.cache.Get(key)
	if !found {
		return nil, Miss
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, Miss
	}
	return data, Hit
}

func (t *LocalFastTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	t.cache.Set(key, value, ttl)
	return nil
}

func (t *LocalFastTier) Delete(ctx context.Context, key string) error {
	t.cache.Delete(key)
	return nil
}
