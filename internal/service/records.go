package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/metrics"
	"github.com/trogers1052/trade-journal/internal/models"
)

// AddAdjustment records a dividend, expense or fee against a trade. Expenses
// and fees are stored negative, dividends positive, whatever sign was sent.
func (j *Journal) AddAdjustment(ctx context.Context, tradeID uuid.UUID, a *models.Adjustment) (*models.Adjustment, error) {
	t, err := j.repo.GetTradeByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	switch a.Type {
	case models.AdjustmentDividend, models.AdjustmentExpense, models.AdjustmentFee:
	default:
		return nil, fmt.Errorf("%w: unknown adjustment type %q", ErrInvalidInput, a.Type)
	}
	if a.Amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount is required", ErrInvalidInput)
	}

	a.ID = uuid.Nil
	a.TradeID = tradeID
	a.NormalizeSign()
	if err := j.repo.CreateAdjustment(ctx, a); err != nil {
		return nil, err
	}

	j.publish(ctx, models.EventAdjustmentAdded, t, a)
	return a, nil
}

// ListAdjustments returns a trade's adjustments
func (j *Journal) ListAdjustments(ctx context.Context, tradeID uuid.UUID) ([]*models.Adjustment, error) {
	if _, err := j.repo.GetTradeByID(ctx, tradeID); err != nil {
		return nil, err
	}
	return j.repo.GetAdjustmentsByTrade(ctx, tradeID)
}

// DeleteAdjustment removes an adjustment
func (j *Journal) DeleteAdjustment(ctx context.Context, id uuid.UUID) error {
	return j.repo.DeleteAdjustment(ctx, id)
}

// RecordSnapshot stores a price observation for an open trade. A repeat of
// an already stored (trade, timestamp) pair is not an error; created is
// false.
func (j *Journal) RecordSnapshot(ctx context.Context, s *models.Snapshot) (created bool, err error) {
	t, err := j.repo.GetTradeByID(ctx, s.TradeID)
	if err != nil {
		return false, err
	}
	if t.Status != models.StatusOpen {
		return false, fmt.Errorf("%w: %s is %s", ErrTradeNotOpen, t.ID, t.Status)
	}
	if !s.Price.IsPositive() {
		return false, fmt.Errorf("%w: snapshot price must be positive", ErrInvalidInput)
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = j.now().UTC()
	}

	created, err = j.repo.CreateSnapshot(ctx, s)
	if err != nil {
		metrics.RecordSnapshot("error")
		return false, err
	}
	if created {
		metrics.RecordSnapshot("created")
	} else {
		metrics.RecordSnapshot("duplicate")
	}
	return created, nil
}

// ListSnapshots returns a trade's price history
func (j *Journal) ListSnapshots(ctx context.Context, tradeID uuid.UUID) ([]*models.Snapshot, error) {
	if _, err := j.repo.GetTradeByID(ctx, tradeID); err != nil {
		return nil, err
	}
	return j.repo.GetSnapshotsByTrade(ctx, tradeID)
}

// AddJournalEntry stores a note, checking the referenced trade exists
func (j *Journal) AddJournalEntry(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	e.Content = strings.TrimSpace(e.Content)
	if e.Content == "" {
		return nil, fmt.Errorf("%w: journal content is required", ErrInvalidInput)
	}
	if e.TradeID != nil {
		if _, err := j.repo.GetTradeByID(ctx, *e.TradeID); err != nil {
			return nil, err
		}
	}

	e.ID = uuid.Nil
	if err := j.repo.CreateJournalEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListJournal returns notes newest first, optionally for one trade
func (j *Journal) ListJournal(ctx context.Context, tradeID *uuid.UUID) ([]*models.JournalEntry, error) {
	return j.repo.ListJournalEntries(ctx, tradeID)
}
