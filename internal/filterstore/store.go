package filterstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/trade-journal/internal/models"
)

// DefaultProfile is used when a request names no profile
const DefaultProfile = "default"

const keyPrefix = "dashboard:filters:"

// Store persists dashboard filter state per profile
type Store interface {
	Load(ctx context.Context, profile string) (models.DashboardFilterState, error)
	Save(ctx context.Context, profile string, state models.DashboardFilterState) (models.DashboardFilterState, error)
}

// RedisStore keeps each profile's filter state as a JSON blob with no expiry
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed filter store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load returns the saved state, or the defaults when nothing is stored
func (s *RedisStore) Load(ctx context.Context, profile string) (models.DashboardFilterState, error) {
	raw, err := s.client.Get(ctx, key(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DefaultFilterState(), nil
	}
	if err != nil {
		return models.DashboardFilterState{}, fmt.Errorf("failed to load filter state: %w", err)
	}

	state := models.DefaultFilterState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.DashboardFilterState{}, fmt.Errorf("failed to decode filter state: %w", err)
	}
	state.Normalize()
	return state, nil
}

// Save normalizes and stores state, returning what was stored
func (s *RedisStore) Save(ctx context.Context, profile string, state models.DashboardFilterState) (models.DashboardFilterState, error) {
	state.Normalize()

	data, err := json.Marshal(state)
	if err != nil {
		return models.DashboardFilterState{}, fmt.Errorf("failed to encode filter state: %w", err)
	}
	if err := s.client.Set(ctx, key(profile), data, 0).Err(); err != nil {
		return models.DashboardFilterState{}, fmt.Errorf("failed to save filter state: %w", err)
	}
	return state, nil
}

// MemoryStore is a process-local Store, used when Redis is not configured
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]models.DashboardFilterState
}

// NewMemoryStore creates an empty in-memory filter store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]models.DashboardFilterState)}
}

func (s *MemoryStore) Load(_ context.Context, profile string) (models.DashboardFilterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[profileName(profile)]
	if !ok {
		return models.DefaultFilterState(), nil
	}
	return state, nil
}

func (s *MemoryStore) Save(_ context.Context, profile string, state models.DashboardFilterState) (models.DashboardFilterState, error) {
	state.Normalize()

	s.mu.Lock()
	s.states[profileName(profile)] = state
	s.mu.Unlock()
	return state, nil
}

func profileName(profile string) string {
	if profile == "" {
		return DefaultProfile
	}
	return profile
}

func key(profile string) string {
	return keyPrefix + profileName(profile)
}
