package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

type fakeRepo struct {
	mu          sync.Mutex
	trades      map[uuid.UUID]*models.Trade
	adjustments map[uuid.UUID]*models.Adjustment
	snapshots   []*models.Snapshot
	performance map[uuid.UUID]*models.PerformanceSnapshot
	journal     []*models.JournalEntry

	adjustmentsErr error
	snapshotsErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		trades:      make(map[uuid.UUID]*models.Trade),
		adjustments: make(map[uuid.UUID]*models.Adjustment),
		performance: make(map[uuid.UUID]*models.PerformanceSnapshot),
	}
}

func notFound(what string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
}

func (r *fakeRepo) CreateTrade(_ context.Context, t *models.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.trades[t.ID] = &cp
	return nil
}

func (r *fakeRepo) GetTradeByID(_ context.Context, id uuid.UUID) (*models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok {
		return nil, notFound("trade", id)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepo) GetAllTrades(_ context.Context) ([]*models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Trade, 0, len(r.trades))
	for _, t := range r.trades {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (r *fakeRepo) UpdateTrade(_ context.Context, t *models.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.trades[t.ID]
	if !ok {
		return notFound("trade", t.ID)
	}
	cp := *t
	cp.CloseDate = existing.CloseDate
	cp.ClosePrice = existing.ClosePrice
	cp.Pnl = existing.Pnl
	cp.NetProfit = existing.NetProfit
	cp.AdjustmentsTotal = existing.AdjustmentsTotal
	cp.OvernightInterestTotal = existing.OvernightInterestTotal
	cp.WNL = existing.WNL
	r.trades[t.ID] = &cp
	return nil
}

func (r *fakeRepo) CloseTrade(_ context.Context, t *models.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.trades[t.ID]
	if !ok {
		return notFound("trade", t.ID)
	}
	if existing.Status == models.StatusClosed {
		return models.ErrInvalidTransition
	}
	cp := *t
	cp.Status = models.StatusClosed
	r.trades[t.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteTrade(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trades[id]; !ok {
		return notFound("trade", id)
	}
	delete(r.trades, id)
	return nil
}

func (r *fakeRepo) CreateAdjustment(_ context.Context, a *models.Adjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.adjustments[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAdjustmentsByTrade(_ context.Context, tradeID uuid.UUID) ([]*models.Adjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Adjustment
	for _, a := range r.adjustments {
		if a.TradeID == tradeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetAllAdjustments(_ context.Context) (map[uuid.UUID][]*models.Adjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adjustmentsErr != nil {
		return nil, r.adjustmentsErr
	}
	out := make(map[uuid.UUID][]*models.Adjustment)
	for _, a := range r.adjustments {
		out[a.TradeID] = append(out[a.TradeID], a)
	}
	return out, nil
}

func (r *fakeRepo) DeleteAdjustment(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adjustments[id]; !ok {
		return notFound("adjustment", id)
	}
	delete(r.adjustments, id)
	return nil
}

func (r *fakeRepo) CreateSnapshot(_ context.Context, s *models.Snapshot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.snapshots {
		if existing.TradeID == s.TradeID && existing.Timestamp.Equal(s.Timestamp) {
			return false, nil
		}
	}
	s.ID = len(r.snapshots) + 1
	cp := *s
	r.snapshots = append(r.snapshots, &cp)
	return true, nil
}

func (r *fakeRepo) GetSnapshotsByTrade(_ context.Context, tradeID uuid.UUID) ([]*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Snapshot
	for _, s := range r.snapshots {
		if s.TradeID == tradeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetLatestSnapshotsForOpenTrades(_ context.Context) (map[uuid.UUID]*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshotsErr != nil {
		return nil, r.snapshotsErr
	}
	out := make(map[uuid.UUID]*models.Snapshot)
	for _, s := range r.snapshots {
		t, ok := r.trades[s.TradeID]
		if !ok || t.Status != models.StatusOpen {
			continue
		}
		if cur, ok := out[s.TradeID]; !ok || s.Timestamp.After(cur.Timestamp) {
			out[s.TradeID] = s
		}
	}
	return out, nil
}

func (r *fakeRepo) UpsertPerformanceSnapshot(_ context.Context, p *models.PerformanceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.performance {
		if existing.Interval == p.Interval && existing.PeriodStart.Equal(p.PeriodStart) {
			p.ID = id
			cp := *p
			r.performance[id] = &cp
			return nil
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.performance[p.ID] = &cp
	return nil
}

func (r *fakeRepo) ListPerformanceSnapshots(_ context.Context, since *time.Time) ([]*models.PerformanceSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PerformanceSnapshot
	for _, p := range r.performance {
		if since != nil && p.PeriodStart.Before(*since) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	return out, nil
}

func (r *fakeRepo) GetPerformanceSnapshot(_ context.Context, id uuid.UUID) (*models.PerformanceSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.performance[id]
	if !ok {
		return nil, notFound("performance snapshot", id)
	}
	return p, nil
}

func (r *fakeRepo) UpdatePerformanceSnapshot(_ context.Context, p *models.PerformanceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.performance[p.ID]; !ok {
		return notFound("performance snapshot", p.ID)
	}
	cp := *p
	r.performance[p.ID] = &cp
	return nil
}

func (r *fakeRepo) DeletePerformanceSnapshot(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.performance[id]; !ok {
		return notFound("performance snapshot", id)
	}
	delete(r.performance, id)
	return nil
}

func (r *fakeRepo) CreateJournalEntry(_ context.Context, e *models.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.journal = append(r.journal, e)
	return nil
}

func (r *fakeRepo) ListJournalEntries(_ context.Context, tradeID *uuid.UUID) ([]*models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.JournalEntry
	for _, e := range r.journal {
		if tradeID != nil && (e.TradeID == nil || *e.TradeID != *tradeID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.TradeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.TradeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

type fixedRates map[string]decimal.Decimal

func (f fixedRates) RateToGBP(code string) decimal.Decimal {
	if r, ok := f[code]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}
