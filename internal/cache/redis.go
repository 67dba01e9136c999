package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/swipe-api/internal/config"
)

// UnviewedCountTTL bounds how stale a cached badge count can get.
const UnviewedCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForUnviewedCount generates the Redis key for a user's unviewed-match badge.
func KeyForUnviewedCount(userID string) string {
	return fmt.Sprintf("matches:unviewed:%s", userID)
}

// KeyForLoginAttempts generates the Redis key counting failed logins for an email.
func KeyForLoginAttempts(email string) string {
	return fmt.Sprintf("auth:login_attempts:%s", email)
}

func (c *RedisCache) SetUnviewedCount(ctx context.Context, userID string, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, KeyForUnviewedCount(userID), count, UnviewedCountTTL).Err()
}

// GetUnviewedCount returns the cached count and whether it was present.
func (c *RedisCache) GetUnviewedCount(ctx context.Context, userID string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, KeyForUnviewedCount(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// InvalidateUnviewedCount drops the cached badge for every given user.
func (c *RedisCache) InvalidateUnviewedCount(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, KeyForUnviewedCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}

// IncrLoginAttempts bumps the failed-login counter for email and returns the
// new value. The window starts with the first failure.
func (c *RedisCache) IncrLoginAttempts(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := KeyForLoginAttempts(email)
	n, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.Client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// LoginAttempts returns the current failed-login count for email.
func (c *RedisCache) LoginAttempts(ctx context.Context, email string) (int64, error) {
	n, err := c.Client.Get(ctx, KeyForLoginAttempts(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *RedisCache) ResetLoginAttempts(ctx context.Context, email string) error {
	return c.Client.Del(ctx, KeyForLoginAttempts(email)).Err()
}
