package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetAndGet(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "series:room-1", []byte(`{"dates":["1/2"]}`), time.Minute)
	require.NoError(t, err)

	val, err := cache.Get(ctx, "series:room-1")
	require.NoError(t, err)
	require.Equal(t, `{"dates":["1/2"]}`, string(val))
}

func TestCacheGetMissing(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)

	val, err := cache.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "gone", []byte("soon"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "gone"))

	val, err := cache.Get(ctx, "gone")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestCacheExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("lived"), time.Second))

	mr.FastForward(2 * time.Second)

	val, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	require.Nil(t, val)
}
