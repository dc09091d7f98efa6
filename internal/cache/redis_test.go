package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-access/internal/config"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	expiry := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	expected := models.Subscription{
		ID:         "sub-1",
		UserUID:    "uid-1",
		PlanType:   models.PlanMonthly,
		ExpiryDate: expiry,
		IsActive:   true,
	}
	require.NoError(t, cache.Set(ctx, SubscriptionKey("uid-1"), expected, time.Minute))

	var actual models.Subscription
	found, err := cache.Get(ctx, SubscriptionKey("uid-1"), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected.ID, actual.ID)
	assert.True(t, expected.ExpiryDate.Equal(actual.ExpiryDate))
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out models.Subscription
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "key"))

	var out string
	found, err := cache.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetIfVersion(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	key := SubscriptionKey("uid-1")

	version, err := cache.Version(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	stored, err := cache.SetIfVersion(ctx, key, version, "fresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists(key))
}

func TestSetIfVersion_SkipsAfterInvalidate(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	key := SubscriptionKey("uid-1")

	version, err := cache.Version(ctx, key)
	require.NoError(t, err)

	// Запись в хранилище и сброс кэша между чтением и заполнением.
	require.NoError(t, cache.Invalidate(ctx, key))

	stored, err := cache.SetIfVersion(ctx, key, version, "stale", time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(key))

	next, err := cache.Version(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, version+1, next)

	stored, err = cache.SetIfVersion(ctx, key, next, "fresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	mr.FastForward(2 * time.Minute)

	var out string
	found, err := cache.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Db.Set(ctx, "bad", []byte("not-json"), time.Minute).Err())

	var out models.Subscription
	found, err := cache.Get(ctx, "bad", &out)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisUnavailable(t *testing.T) {
	cache, mr := setupTestCache(t)
	mr.Close()

	var out string
	_, err := cache.Get(context.Background(), "key", &out)
	assert.Error(t, err)
	assert.Error(t, cache.Ping(context.Background()))
}

func TestInitServerFails(t *testing.T) {
	_, err := InitServer(context.Background(), config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	})
	assert.Error(t, err)
}
