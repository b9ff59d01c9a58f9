package cache

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lensprice/lensprice/internal/config"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	redis "github.com/redis/go-redis/v9"
)

const redisScanBatch = 200

// RedisCache shares cached results between API replicas. Values are stored
// as JSON and come back from Get as []byte; use GetAs to decode them.
type RedisCache struct {
	client     *redis.Client
	logger     *logger.Logger
	defaultTTL time.Duration
}

// NewRedisClient connects to redis, retrying the first ping with exponential backoff
func NewRedisClient(cfg *config.Configuration, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.Redis.Address),
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 20 * time.Second

	err := backoff.RetryNotify(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}, policy, func(err error, next time.Duration) {
		log.Warnw("redis not reachable, retrying", "address", cfg.Redis.Address, "error", err, "retry_in", next)
	})
	if err != nil {
		_ = client.Close()
		return nil, ierr.WithError(err).
			WithHint("Could not connect to redis").
			Mark(ierr.ErrCache)
	}
	return client, nil
}

func NewRedisCache(client *redis.Client, cfg *config.Configuration, log *logger.Logger) *RedisCache {
	return &RedisCache{
		client:     client,
		logger:     log,
		defaultTTL: cfg.Cache.TTL(),
	}
}

// Get retrieves the raw JSON stored under key
func (c *RedisCache) Get(ctx context.Context, key string) (interface{}, bool) {
	span := StartCacheSpan(ctx, "redis", "get", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			SetSpanError(span, err)
			c.logger.Warnw("redis get failed", "key", key, "error", err)
		}
		return nil, false
	}
	SetSpanSuccess(span)
	return data, true
}

// Set stores the JSON encoding of value
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	span := StartCacheSpan(ctx, "redis", "set", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	data, err := json.Marshal(value)
	if err != nil {
		SetSpanError(span, err)
		c.logger.Warnw("failed to encode cache value", "key", key, "error", err)
		return
	}
	if expiration <= 0 {
		expiration = c.defaultTTL
	}
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		SetSpanError(span, err)
		c.logger.Warnw("redis set failed", "key", key, "error", err)
		return
	}
	SetSpanSuccess(span)
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnw("redis delete failed", "key", key, "error", err)
	}
}

// DeleteByPrefix scans for matching keys instead of using KEYS
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", redisScanBatch).Iterator()
	keys := make([]string, 0, redisScanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == redisScanBatch {
			c.client.Del(ctx, keys...)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warnw("redis scan failed", "prefix", prefix, "error", err)
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// Flush only clears this service's key space, never the whole database
func (c *RedisCache) Flush(ctx context.Context) {
	c.DeleteByPrefix(ctx, PrefixRecommendation)
}
