package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisIdempotencyStore_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, err := NewRedisIdempotencyStore(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisIdempotencyStoreWithClient_KeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	store := NewRedisIdempotencyStoreWithClient(client, "")
	assert.Equal(t, DefaultKeyPrefix, store.keyPrefix)
	require.NoError(t, store.Close())

	client = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	store = NewRedisIdempotencyStoreWithClient(client, "tenant-a:")
	assert.Equal(t, "tenant-a:", store.keyPrefix)
	require.NoError(t, store.Close())
}

func TestRedisIdempotencyStore_WrapsClientErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisIdempotencyStoreWithClient(client, "")
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k", time.Minute)
	assert.ErrorContains(t, err, "failed to reserve idempotency key")

	_, _, err = store.Lookup(ctx, "k")
	assert.ErrorContains(t, err, "failed to look up idempotency key")

	assert.ErrorContains(t, store.Complete(ctx, "k", []byte(`{}`), time.Minute), "failed to store idempotent response")
	assert.ErrorContains(t, store.Release(ctx, "k"), "failed to release idempotency key")
}
