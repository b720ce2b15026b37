// Package service orchestrates the journal: it loads trades and their related
// records, runs the pure calculators over them and persists the results.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/economics"
	"github.com/trogers1052/trade-journal/internal/levels"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput is returned for requests that fail validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrTradeNotOpen is returned when an operation needs an open trade
	ErrTradeNotOpen = errors.New("trade is not open")
)

// TradeStore persists trades
type TradeStore interface {
	CreateTrade(ctx context.Context, t *models.Trade) error
	GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetAllTrades(ctx context.Context) ([]*models.Trade, error)
	UpdateTrade(ctx context.Context, t *models.Trade) error
	CloseTrade(ctx context.Context, t *models.Trade) error
	DeleteTrade(ctx context.Context, id uuid.UUID) error
}

// AdjustmentStore persists trade cash adjustments
type AdjustmentStore interface {
	CreateAdjustment(ctx context.Context, a *models.Adjustment) error
	GetAdjustmentsByTrade(ctx context.Context, tradeID uuid.UUID) ([]*models.Adjustment, error)
	GetAllAdjustments(ctx context.Context) (map[uuid.UUID][]*models.Adjustment, error)
	DeleteAdjustment(ctx context.Context, id uuid.UUID) error
}

// SnapshotStore persists price snapshots
type SnapshotStore interface {
	CreateSnapshot(ctx context.Context, s *models.Snapshot) (bool, error)
	GetSnapshotsByTrade(ctx context.Context, tradeID uuid.UUID) ([]*models.Snapshot, error)
	GetLatestSnapshotsForOpenTrades(ctx context.Context) (map[uuid.UUID]*models.Snapshot, error)
}

// PerformanceStore persists period rollups
type PerformanceStore interface {
	UpsertPerformanceSnapshot(ctx context.Context, p *models.PerformanceSnapshot) error
	ListPerformanceSnapshots(ctx context.Context, since *time.Time) ([]*models.PerformanceSnapshot, error)
	GetPerformanceSnapshot(ctx context.Context, id uuid.UUID) (*models.PerformanceSnapshot, error)
	UpdatePerformanceSnapshot(ctx context.Context, p *models.PerformanceSnapshot) error
	DeletePerformanceSnapshot(ctx context.Context, id uuid.UUID) error
}

// JournalStore persists free-form notes
type JournalStore interface {
	CreateJournalEntry(ctx context.Context, e *models.JournalEntry) error
	ListJournalEntries(ctx context.Context, tradeID *uuid.UUID) ([]*models.JournalEntry, error)
}

// Repository is everything the journal reads and writes
type Repository interface {
	TradeStore
	AdjustmentStore
	SnapshotStore
	PerformanceStore
	JournalStore
}

// Publisher emits trade lifecycle events
type Publisher interface {
	Publish(ctx context.Context, event models.TradeEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.TradeEvent) error { return nil }

// Option configures a Journal
type Option func(*Journal)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithPublisher sets the lifecycle event publisher
func WithPublisher(p Publisher) Option {
	return func(j *Journal) { j.publisher = p }
}

// Journal is the trade journal service
type Journal struct {
	repo      Repository
	profit    *economics.Calculator
	levels    *levels.Calculator
	publisher Publisher
	now       func() time.Time
}

// New creates a journal service. Rates are read on every calculation so a
// refreshed table applies immediately.
func New(repo Repository, rates economics.RateSource, params levels.Params, opts ...Option) *Journal {
	j := &Journal{
		repo:      repo,
		profit:    economics.NewCalculator(rates),
		levels:    levels.NewCalculator(params, rates),
		publisher: nopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) publish(ctx context.Context, eventType string, t *models.Trade, adj *models.Adjustment) {
	event := models.TradeEvent{
		EventType:  eventType,
		TradeID:    t.ID,
		Ticker:     t.Ticker,
		Trade:      t,
		Adjustment: adj,
		Timestamp:  j.now().UTC(),
	}
	if err := j.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish trade event",
			zap.String("event_type", eventType),
			zap.String("trade_id", t.ID.String()),
			zap.Error(err))
	}
}
