package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSessionStore_SaveLookupDelete(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewSessionStore(client, time.Minute)
	client.Del(ctx, "session:test-token")

	require.NoError(t, store.Save(ctx, "test-token", 17))
	id, err := store.Lookup(ctx, "test-token")
	require.NoError(t, err)
	require.Equal(t, int64(17), id)

	ttl, err := client.TTL(ctx, "session:test-token").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "test-token"))
	_, err = store.Lookup(ctx, "test-token")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}
