//go:build e2e

package idempotency_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"court-booking/internal/infra/idempotency"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Redisコンテナの起動に失敗")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore(t *testing.T) {
	client := startRedis(t)
	store := idempotency.NewRedisStore(client)
	ctx := context.Background()
	ttl := time.Minute

	t.Run("second begin sees the completed record", func(t *testing.T) {
		userID, key, bookingID := uuid.New(), uuid.New(), uuid.New()

		_, claimed, err := store.Begin(ctx, userID, key, "hash-a", ttl)
		require.NoError(t, err)
		assert.True(t, claimed)

		require.NoError(t, store.Complete(ctx, userID, key, "hash-a", bookingID, ttl))

		rec, claimed, err := store.Begin(ctx, userID, key, "hash-a", ttl)
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
		assert.Equal(t, "hash-a", rec.RequestHash)
		require.NotNil(t, rec.BookingID)
		assert.Equal(t, bookingID, *rec.BookingID)
	})

	t.Run("complete after the claim expired keeps the request hash", func(t *testing.T) {
		userID, key, bookingID := uuid.New(), uuid.New(), uuid.New()

		_, claimed, err := store.Begin(ctx, userID, key, "hash-b", ttl)
		require.NoError(t, err)
		require.True(t, claimed)
		require.NoError(t, client.Del(ctx, "idemp:booking:"+userID.String()+":"+key.String()).Err())

		require.NoError(t, store.Complete(ctx, userID, key, "hash-b", bookingID, ttl))

		rec, claimed, err := store.Begin(ctx, userID, key, "hash-b", ttl)
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, "hash-b", rec.RequestHash)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
	})

	t.Run("release frees the key", func(t *testing.T) {
		userID, key := uuid.New(), uuid.New()

		_, claimed, err := store.Begin(ctx, userID, key, "hash-c", ttl)
		require.NoError(t, err)
		require.True(t, claimed)
		require.NoError(t, store.Release(ctx, userID, key))

		_, claimed, err = store.Begin(ctx, userID, key, "hash-c", ttl)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("keys are scoped per user", func(t *testing.T) {
		key := uuid.New()

		_, claimed, err := store.Begin(ctx, uuid.New(), key, "hash-d", ttl)
		require.NoError(t, err)
		require.True(t, claimed)

		_, claimed, err = store.Begin(ctx, uuid.New(), key, "hash-d", ttl)
		require.NoError(t, err)
		assert.True(t, claimed)
	})
}
