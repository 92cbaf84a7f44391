package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *RedisAdapter {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return NewRedisAdapter(client)
}

func TestRedisAdapter(t *testing.T) {
	cache := newTestAdapter(t)
	key := "vehicle:" + uuid.NewString()

	_, err := cache.Get(key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cache.Set(key, []byte(`{"make":"Honda"}`), time.Minute))
	got, err := cache.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"make":"Honda"}`, string(got))

	require.NoError(t, cache.Delete(key))
	_, err = cache.Get(key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	cache := newTestAdapter(t)
	key := "vehicle:" + uuid.NewString()

	require.NoError(t, cache.Set(key, []byte("x"), 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := cache.Get(key)
		return errors.Is(err, domain.ErrNotFound)
	}, 2*time.Second, 20*time.Millisecond)
}
