package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-api/internal/cache"
	"github.com/oggyb/swipe-api/internal/config"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestUnviewedCount_MissSetInvalidate(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	_, ok, err := rc.GetUnviewedCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rc.SetUnviewedCount(ctx, "u1", 3))
	n, ok, err := rc.GetUnviewedCount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, cache.UnviewedCountTTL, mr.TTL(cache.KeyForUnviewedCount("u1")))

	require.NoError(t, rc.InvalidateUnviewedCount(ctx, "u1", "u2"))
	_, ok, err = rc.GetUnviewedCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginAttempts_WindowExpires(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	for i := 1; i <= 3; i++ {
		n, err := rc.IncrLoginAttempts(ctx, "a@example.com", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	n, err := rc.LoginAttempts(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mr.FastForward(2 * time.Minute)

	n, err = rc.LoginAttempts(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = rc.IncrLoginAttempts(ctx, "a@example.com", time.Minute)
	require.NoError(t, err)
	require.NoError(t, rc.ResetLoginAttempts(ctx, "a@example.com"))
	n, err = rc.LoginAttempts(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}
