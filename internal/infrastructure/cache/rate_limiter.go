package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient creates and pings a Redis client
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RateLimiter decides whether a caller may proceed
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisRateLimiter implements a sliding-window rate limit on a Redis
// sorted set per key. Limiting is advisory: any Redis failure fails open
// so an unavailable cache never takes the API down with it.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisRateLimiter creates a limiter on an existing Redis client
func NewRedisRateLimiter(client *redis.Client, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: "ratelimit:",
		logger:    logger,
	}
}

// Allow records the request and reports whether the caller is within limit
// for the sliding window ending now.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	redisKey := l.keyPrefix + key
	windowStart := now.Add(-window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey,
		"0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("Rate limiter unavailable, failing open",
			zap.String("key", key),
			zap.Error(err))
		return true, nil
	}

	return count.Val() <= int64(limit), nil
}

// NoopRateLimiter allows everything. Used when Redis is not configured.
type NoopRateLimiter struct{}

// Allow always permits the request
func (NoopRateLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}
