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

// CreateSnapshot inserts a price snapshot. A snapshot for the same trade and
// timestamp already stored is left as is and created is false.
func (db *DB) CreateSnapshot(ctx context.Context, s *models.Snapshot) (bool, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO price_snapshots (trade_id, price, snapshot_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trade_id, snapshot_at) DO NOTHING
		RETURNING id
	`
	err := db.conn.QueryRowContext(ctx, query, s.TradeID, s.Price, s.Timestamp, now).Scan(&s.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create snapshot: %w", err)
	}
	s.CreatedAt = now
	return true, nil
}

// SnapshotExists reports whether a snapshot is stored for the trade at ts
func (db *DB) SnapshotExists(ctx context.Context, tradeID uuid.UUID, ts time.Time) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM price_snapshots WHERE trade_id = $1 AND snapshot_at = $2)`,
		tradeID, ts,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	return exists, nil
}

// GetSnapshotsByTrade retrieves a trade's snapshots in time order
func (db *DB) GetSnapshotsByTrade(ctx context.Context, tradeID uuid.UUID) ([]*models.Snapshot, error) {
	query := `
		SELECT id, trade_id, price, snapshot_at, created_at
		FROM price_snapshots
		WHERE trade_id = $1
		ORDER BY snapshot_at
	`
	return scanSnapshots(db.conn.QueryContext(ctx, query, tradeID))
}

// GetLatestSnapshotsForOpenTrades returns the most recent snapshot of every
// open trade that has one, keyed by trade ID
func (db *DB) GetLatestSnapshotsForOpenTrades(ctx context.Context) (map[uuid.UUID]*models.Snapshot, error) {
	query := `
		SELECT DISTINCT ON (s.trade_id) s.id, s.trade_id, s.price, s.snapshot_at, s.created_at
		FROM price_snapshots s
		JOIN trades t ON t.id = s.trade_id
		WHERE t.status = $1
		ORDER BY s.trade_id, s.snapshot_at DESC
	`
	snaps, err := scanSnapshots(db.conn.QueryContext(ctx, query, models.StatusOpen))
	if err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]*models.Snapshot, len(snaps))
	for _, s := range snaps {
		latest[s.TradeID] = s
	}
	return latest, nil
}

func scanSnapshots(rows *sql.Rows, err error) ([]*models.Snapshot, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []*models.Snapshot{}
	for rows.Next() {
		var s models.Snapshot
		if err := rows.Scan(&s.ID, &s.TradeID, &s.Price, &s.Timestamp, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, &s)
	}
	return snaps, rows.Err()
}
