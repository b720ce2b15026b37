package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/metrics"
	"github.com/trogers1052/trade-journal/internal/models"
	"go.uber.org/zap"
)

// SnapshotRepository defines the database operations the consumer needs
type SnapshotRepository interface {
	GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetOpenTradesByTicker(ctx context.Context, ticker string) ([]*models.Trade, error)
	SnapshotExists(ctx context.Context, tradeID uuid.UUID, ts time.Time) (bool, error)
	CreateSnapshot(ctx context.Context, s *models.Snapshot) (bool, error)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Config() kafka.ReaderConfig
	Close() error
}

// Consumer ingests PRICE_SNAPSHOT events into the snapshot store. An event
// names either a trade or a ticker; a ticker fans out to every open trade on
// it. Redelivered events are skipped by (trade, timestamp).
type Consumer struct {
	reader messageReader
	repo   SnapshotRepository
}

// NewConsumer creates a new Kafka consumer for price snapshot events
func NewConsumer(brokers []string, topic, groupID string, repo SnapshotRepository) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
	}
}

// Start consumes messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	logger.Info("starting kafka consumer", zap.String("topic", c.reader.Config().Topic))

	for {
		select {
		case <-ctx.Done():
			logger.Info("kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("failed to read message", zap.Error(err))
				continue
			}

			if _, err := c.processMessage(ctx, msg); err != nil {
				metrics.RecordSnapshot("error")
				logger.Error("failed to process message",
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
			}
		}
	}
}

// processMessage stores the snapshots carried by one message and returns how
// many were new
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) (int, error) {
	var event models.PriceSnapshotEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return 0, fmt.Errorf("failed to unmarshal snapshot event: %w", err)
	}

	if event.EventType != models.EventPriceSnapshot {
		logger.Debug("ignoring event", zap.String("event_type", event.EventType))
		return 0, nil
	}

	price, err := decimal.NewFromString(event.Data.Price)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", event.Data.Price, err)
	}
	if !price.IsPositive() {
		return 0, fmt.Errorf("price must be positive, got %s", price)
	}

	ts, err := parseTimestamp(event.Data.Timestamp, msg.Time)
	if err != nil {
		return 0, err
	}

	trades, err := c.targets(ctx, event.Data)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range trades {
		exists, err := c.repo.SnapshotExists(ctx, t.ID, ts)
		if err != nil {
			return created, fmt.Errorf("failed to check for duplicate snapshot: %w", err)
		}
		if exists {
			metrics.RecordSnapshot("duplicate")
			logger.Debug("snapshot already stored",
				zap.String("trade_id", t.ID.String()),
				zap.Time("timestamp", ts))
			continue
		}

		snap := &models.Snapshot{TradeID: t.ID, Price: price, Timestamp: ts}
		ok, err := c.repo.CreateSnapshot(ctx, snap)
		if err != nil {
			return created, fmt.Errorf("failed to save snapshot: %w", err)
		}
		if !ok {
			metrics.RecordSnapshot("duplicate")
			continue
		}
		metrics.RecordSnapshot("created")
		created++
	}

	logger.Debug("processed price snapshot",
		zap.String("ticker", event.Data.Ticker),
		zap.String("price", price.String()),
		zap.Int("trades", len(trades)),
		zap.Int("created", created))
	return created, nil
}

// targets resolves the open trades an event applies to
func (c *Consumer) targets(ctx context.Context, data models.PriceSnapshotData) ([]*models.Trade, error) {
	if data.TradeID != "" {
		id, err := uuid.Parse(data.TradeID)
		if err != nil {
			return nil, fmt.Errorf("invalid trade id %q: %w", data.TradeID, err)
		}
		t, err := c.repo.GetTradeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t.Status != models.StatusOpen {
			logger.Debug("ignoring snapshot for trade that is not open",
				zap.String("trade_id", data.TradeID),
				zap.String("status", t.Status))
			return nil, nil
		}
		return []*models.Trade{t}, nil
	}

	ticker := strings.ToUpper(strings.TrimSpace(data.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("snapshot event has neither trade_id nor ticker")
	}
	trades, err := c.repo.GetOpenTradesByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load open trades for %s: %w", ticker, err)
	}
	return trades, nil
}

// parseTimestamp accepts RFC3339 or a zone-less ISO timestamp read as UTC.
// An absent timestamp falls back to the message time so redelivery stays
// idempotent.
func parseTimestamp(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		if fallback.IsZero() {
			return time.Time{}, fmt.Errorf("snapshot event has no timestamp")
		}
		return fallback.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return ts, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
