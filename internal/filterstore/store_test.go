package filterstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/trogers1052/trade-journal/internal/models"
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

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	state, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFilterState(), state)

	real := models.AssetTypeRealMoney
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	saved, err := store.Save(ctx, "alice", models.DashboardFilterState{
		SearchTerm:        "aa",
		AccountTypeFilter: &real,
		DateFilter:        models.DateFilterCustom,
		CustomStartDate:   &start,
	})
	require.NoError(t, err)
	assert.Equal(t, "aa", saved.SearchTerm)

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "aa", loaded.SearchTerm)
	require.NotNil(t, loaded.AccountTypeFilter)
	assert.Equal(t, models.AssetTypeRealMoney, *loaded.AccountTypeFilter)
	assert.Equal(t, models.DateFilterCustom, loaded.DateFilter)
	require.NotNil(t, loaded.CustomStartDate)
	assert.True(t, start.Equal(*loaded.CustomStartDate))

	other, err := store.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.DateFilterThisYear, other.DateFilter)

	saved, err = store.Save(ctx, "bob", models.DashboardFilterState{DateFilter: "fortnight"})
	require.NoError(t, err)
	assert.Equal(t, models.DateFilterThisYear, saved.DateFilter)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := setupRedis(t)
	exerciseStore(t, NewRedisStore(client))

	t.Run("corrupt blob is an error", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, client.Set(ctx, key("carol"), "{not json", 0).Err())

		_, err := NewRedisStore(client).Load(ctx, "carol")
		require.Error(t, err)
	})
}
