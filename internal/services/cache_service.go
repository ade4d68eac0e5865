package services

import (
	"context"
	"time"
)

// CacheService is the slice of the cache the services depend on. Both
// cache.RedisCache and cache.MemoryCache satisfy it.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) (int64, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Increment(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// Cache keys
const (
	blogCachePrefix      = "blog:"
	blogCachePattern     = "blog:*"
	stripeEventKeyPrefix = "stripe:event:"

	blogCacheTTL        = 5 * time.Minute
	stripeEventCacheTTL = 72 * time.Hour
)
