package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := setupRedis(t)
	ctx := context.Background()

	t.Run("no cache and failing source returns error", func(t *testing.T) {
		require.NoError(t, client.FlushDB(ctx).Err())

		src := NewCachedSource(&stubSource{err: errors.New("offline")}, client, time.Hour)
		_, err := src.Fetch(ctx)
		require.Error(t, err)
	})

	t.Run("serves last good table when source fails", func(t *testing.T) {
		require.NoError(t, client.FlushDB(ctx).Err())

		upstream := &stubSource{table: Table{"GBP": decimal.NewFromInt(1), "USD": decimal.RequireFromString("0.77")}}
		src := NewCachedSource(upstream, client, time.Hour)

		_, err := src.Fetch(ctx)
		require.NoError(t, err)

		upstream.err = errors.New("offline")
		table, err := src.Fetch(ctx)
		require.NoError(t, err)
		assert.True(t, table["USD"].Equal(decimal.RequireFromString("0.77")))
		assert.Equal(t, 2, upstream.calls)
	})
}
