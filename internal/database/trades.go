package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/models"
)

const tradeColumns = `
	id, ticker, market, currency, trade_type, asset_type, strategy, status,
	entry_date, entry_price, quantity, stop_loss, take_profit, atr,
	overnight_interest, note, close_date, close_price, pnl, net_profit,
	adjustments_total, overnight_interest_total, wnl,
	manual_current_price, highest_close_price, created_at, updated_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// CreateTrade inserts a new trade, assigning an ID when none is set
func (db *DB) CreateTrade(ctx context.Context, t *models.Trade) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO trades (
			id, ticker, market, currency, trade_type, asset_type, strategy, status,
			entry_date, entry_price, quantity, stop_loss, take_profit, atr,
			overnight_interest, note, close_date, close_price, pnl, net_profit,
			adjustments_total, overnight_interest_total, wnl,
			manual_current_price, highest_close_price, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $26
		)
	`
	_, err := db.conn.ExecContext(ctx, query,
		t.ID, t.Ticker, nullString(t.Market), t.Currency, t.Type, t.AssetType, nullString(t.Strategy), t.Status,
		t.Date, t.EntryPrice, t.Quantity, t.StopLoss, t.TakeProfit, t.ATR,
		t.OvernightInterest, nullString(t.Note), t.CloseDate, t.ClosePrice, t.Pnl, t.NetProfit,
		t.AdjustmentsTotal, t.OvernightInterestTotal, nullString(t.WNL),
		t.ManualCurrentPrice, t.HighestClosePrice, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// GetTradeByID retrieves a trade by ID
func (db *DB) GetTradeByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	t, err := scanTrade(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trade %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return t, nil
}

// GetAllTrades retrieves every trade, newest entry first
func (db *DB) GetAllTrades(ctx context.Context) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY entry_date DESC, created_at DESC`
	return scanTrades(db.conn.QueryContext(ctx, query))
}

// GetOpenTradesByTicker retrieves open trades for a ticker
func (db *DB) GetOpenTradesByTicker(ctx context.Context, ticker string) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE ticker = $1 AND status = $2 ORDER BY entry_date`
	return scanTrades(db.conn.QueryContext(ctx, query, ticker, models.StatusOpen))
}

// UpdateTrade writes the editable fields of a trade. The close-time
// aggregates are only ever written by CloseTrade.
func (db *DB) UpdateTrade(ctx context.Context, t *models.Trade) error {
	now := time.Now().UTC()
	query := `
		UPDATE trades SET
			ticker = $2, market = $3, currency = $4, trade_type = $5, asset_type = $6,
			strategy = $7, status = $8, entry_date = $9, entry_price = $10, quantity = $11,
			stop_loss = $12, take_profit = $13, atr = $14, overnight_interest = $15, note = $16,
			manual_current_price = $17, highest_close_price = $18, updated_at = $19
		WHERE id = $1 AND (status <> 'Closed' OR $8 = 'Closed')
	`
	result, err := db.conn.ExecContext(ctx, query,
		t.ID, t.Ticker, nullString(t.Market), t.Currency, t.Type, t.AssetType,
		nullString(t.Strategy), t.Status, t.Date, t.EntryPrice, t.Quantity,
		t.StopLoss, t.TakeProfit, t.ATR, t.OvernightInterest, nullString(t.Note),
		t.ManualCurrentPrice, t.HighestClosePrice, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if err := db.checkTransition(ctx, result, t.ID, "trade %s is closed and cannot be reopened"); err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

// CloseTrade persists the frozen close-time fields. A trade that is already
// closed is left untouched and ErrInvalidTransition is returned.
func (db *DB) CloseTrade(ctx context.Context, t *models.Trade) error {
	now := time.Now().UTC()
	query := `
		UPDATE trades SET
			status = $2, close_date = $3, close_price = $4, pnl = $5, net_profit = $6,
			adjustments_total = $7, overnight_interest_total = $8, wnl = $9,
			manual_current_price = NULL, updated_at = $10
		WHERE id = $1 AND status <> $2
	`
	result, err := db.conn.ExecContext(ctx, query,
		t.ID, models.StatusClosed, t.CloseDate, t.ClosePrice, t.Pnl, t.NetProfit,
		t.AdjustmentsTotal, t.OvernightInterestTotal, nullString(t.WNL), now,
	)
	if err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}

	if err := db.checkTransition(ctx, result, t.ID, "trade %s is already closed"); err != nil {
		return err
	}

	t.Status = models.StatusClosed
	t.UpdatedAt = now
	return nil
}

// checkTransition turns a status-guarded update that matched no row into
// ErrNotFound when the trade is gone, or ErrInvalidTransition when the guard
// rejected it
func (db *DB) checkTransition(ctx context.Context, result sql.Result, id uuid.UUID, format string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := db.conn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM trades WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check trade: %w", err)
	}
	if !exists {
		return fmt.Errorf("trade %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf(format+": %w", id, models.ErrInvalidTransition)
}

// DeleteTrade removes a trade along with its adjustments and snapshots
func (db *DB) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return checkAffected(result, "trade", id)
}

func scanTrade(row scanner) (*models.Trade, error) {
	var t models.Trade
	var market, strategy, note, wnl sql.NullString
	var closeDate sql.NullTime

	err := row.Scan(
		&t.ID, &t.Ticker, &market, &t.Currency, &t.Type, &t.AssetType, &strategy, &t.Status,
		&t.Date, &t.EntryPrice, &t.Quantity, &t.StopLoss, &t.TakeProfit, &t.ATR,
		&t.OvernightInterest, &note, &closeDate, &t.ClosePrice, &t.Pnl, &t.NetProfit,
		&t.AdjustmentsTotal, &t.OvernightInterestTotal, &wnl,
		&t.ManualCurrentPrice, &t.HighestClosePrice, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Market = market.String
	t.Strategy = strategy.String
	t.Note = note.String
	t.WNL = wnl.String
	if closeDate.Valid {
		cd := closeDate.Time
		t.CloseDate = &cd
	}
	return &t, nil
}

func scanTrades(rows *sql.Rows, err error) ([]*models.Trade, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := []*models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}
	return trades, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
