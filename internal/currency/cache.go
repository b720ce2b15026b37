package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/trade-journal/internal/logger"
	"go.uber.org/zap"
)

const ratesCacheKey = "currency:rates:gbp"

// CachedSource stores every successful fetch in Redis and serves the cached
// table when the wrapped source fails
type CachedSource struct {
	next  Source
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedSource wraps next with a Redis-backed fallback
func NewCachedSource(next Source, client *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, redis: client, ttl: ttl}
}

// Fetch tries the wrapped source first, then the cache
func (s *CachedSource) Fetch(ctx context.Context) (Table, error) {
	table, err := s.next.Fetch(ctx)
	if err == nil {
		if cacheErr := s.store(ctx, table); cacheErr != nil {
			logger.Warn("failed to cache currency rates", zap.Error(cacheErr))
		}
		return table, nil
	}

	cached, cacheErr := s.load(ctx)
	if cacheErr != nil {
		return nil, errors.Join(err, cacheErr)
	}
	logger.Warn("serving cached currency rates", zap.Error(err))
	return cached, nil
}

func (s *CachedSource) store(ctx context.Context, table Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	return s.redis.Set(ctx, ratesCacheKey, data, s.ttl).Err()
}

func (s *CachedSource) load(ctx context.Context) (Table, error) {
	raw, err := s.redis.Get(ctx, ratesCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.New("no cached currency rates")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached rates: %w", err)
	}

	var table Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to decode cached rates: %w", err)
	}
	return table, nil
}
