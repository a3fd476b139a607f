package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/ports"
)

// setupTestRedis creates a Redis client for testing.
// Tests are skipped when Redis is not reachable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testRecord() ports.TokenRecord {
	return ports.TokenRecord{Token: uuid.NewString(), UserID: uuid.NewString()}
}

func TestTokenStore_SaveGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	store := NewTokenStoreWithPrefix(setupTestRedis(t), "test:token:")
	ctx := context.Background()
	rec := testRecord()

	require.NoError(t, store.Save(ctx, "refresh", rec, time.Minute))

	got, err := store.Get(ctx, "refresh", rec.Token)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, store.Delete(ctx, "refresh", rec.Token))

	_, err = store.Get(ctx, "refresh", rec.Token)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_KindsAreIsolated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	store := NewTokenStoreWithPrefix(setupTestRedis(t), "test:token:")
	ctx := context.Background()
	rec := testRecord()

	require.NoError(t, store.Save(ctx, "refresh", rec, time.Minute))
	t.Cleanup(func() { _ = store.Delete(ctx, "refresh", rec.Token) })

	_, err := store.Get(ctx, "reset", rec.Token)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_ExpiredTokenStopsResolving(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	store := NewTokenStoreWithPrefix(setupTestRedis(t), "test:token:")
	ctx := context.Background()
	rec := testRecord()

	require.NoError(t, store.Save(ctx, "reset", rec, 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	_, err := store.Get(ctx, "reset", rec.Token)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_SaveValidation(t *testing.T) {
	// Argument validation needs no live server.
	store := NewTokenStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	ctx := context.Background()

	err := store.Save(ctx, "refresh", ports.TokenRecord{}, time.Minute)
	assert.ErrorContains(t, err, "token cannot be empty")

	err = store.Save(ctx, "refresh", testRecord(), 0)
	assert.ErrorContains(t, err, "TTL must be positive")
}

func TestTokenStore_EmptyTokenShortCircuits(t *testing.T) {
	store := NewTokenStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	ctx := context.Background()

	_, err := store.Get(ctx, "refresh", "")
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)

	assert.NoError(t, store.Delete(ctx, "refresh", ""))
}
