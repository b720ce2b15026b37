package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/models"
)

// CreateAdjustment inserts a cash adjustment for a trade
func (db *DB) CreateAdjustment(ctx context.Context, a *models.Adjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO adjustments (id, trade_id, adjustment_type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.conn.ExecContext(ctx, query,
		a.ID, a.TradeID, a.Type, a.Amount, nullString(a.Description), now,
	)
	if err != nil {
		return fmt.Errorf("failed to create adjustment: %w", err)
	}
	a.CreatedAt = now
	return nil
}

// GetAdjustmentsByTrade retrieves the adjustments of one trade, oldest first
func (db *DB) GetAdjustmentsByTrade(ctx context.Context, tradeID uuid.UUID) ([]*models.Adjustment, error) {
	query := `
		SELECT id, trade_id, adjustment_type, amount, description, created_at
		FROM adjustments
		WHERE trade_id = $1
		ORDER BY created_at
	`
	return scanAdjustments(db.conn.QueryContext(ctx, query, tradeID))
}

// GetAllAdjustments retrieves every adjustment grouped by trade ID
func (db *DB) GetAllAdjustments(ctx context.Context) (map[uuid.UUID][]*models.Adjustment, error) {
	query := `
		SELECT id, trade_id, adjustment_type, amount, description, created_at
		FROM adjustments
		ORDER BY trade_id, created_at
	`
	adjustments, err := scanAdjustments(db.conn.QueryContext(ctx, query))
	if err != nil {
		return nil, err
	}

	byTrade := make(map[uuid.UUID][]*models.Adjustment)
	for _, a := range adjustments {
		byTrade[a.TradeID] = append(byTrade[a.TradeID], a)
	}
	return byTrade, nil
}

// DeleteAdjustment removes an adjustment by ID
func (db *DB) DeleteAdjustment(ctx context.Context, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete adjustment: %w", err)
	}
	return checkAffected(result, "adjustment", id)
}

func scanAdjustments(rows *sql.Rows, err error) ([]*models.Adjustment, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	adjustments := []*models.Adjustment{}
	for rows.Next() {
		var a models.Adjustment
		var description sql.NullString
		if err := rows.Scan(&a.ID, &a.TradeID, &a.Type, &a.Amount, &description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		a.Description = description.String
		adjustments = append(adjustments, &a)
	}
	return adjustments, rows.Err()
}
