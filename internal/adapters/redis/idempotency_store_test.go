package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/recurring-payment-service/internal/adapters/redis"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a Redis server: export REDIS_URL="redis://localhost:6379/15"
func setupStore(t *testing.T) *redis.IdempotencyStore {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	client, err := redis.NewClient(context.Background(), url)
	if err != nil {
		t.Skipf("Could not connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewIdempotencyStore(client, redis.IdempotencyStoreConfig{
		ResponseTTL:    time.Minute,
		ReservationTTL: time.Minute,
	})
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	resp, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, resp)

	require.NoError(t, store.Reserve(ctx, key))
	assert.ErrorIs(t, store.Reserve(ctx, key), ports.ErrIdempotencyKeyInFlight)

	resp, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, resp, "in-flight keys have no response yet")

	stored := &ports.StoredResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"status":"success"}`)}
	require.NoError(t, store.Complete(ctx, key, stored))

	resp, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, stored, resp)

	require.NoError(t, store.Release(ctx, key))
	require.NoError(t, store.Reserve(ctx, key))
	require.NoError(t, store.Release(ctx, key))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redis.NewClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
