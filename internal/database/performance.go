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

const performanceColumns = `
	id, period_interval, period_start, period_end, realised_pl, unrealised_pl,
	paper_realised_pl, paper_unrealised_pl, created_at`

// UpsertPerformanceSnapshot stores a rollup, replacing the figures of any
// existing rollup for the same interval and period start
func (db *DB) UpsertPerformanceSnapshot(ctx context.Context, p *models.PerformanceSnapshot) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO performance_snapshots (` + performanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (period_interval, period_start) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			realised_pl = EXCLUDED.realised_pl,
			unrealised_pl = EXCLUDED.unrealised_pl,
			paper_realised_pl = EXCLUDED.paper_realised_pl,
			paper_unrealised_pl = EXCLUDED.paper_unrealised_pl
		RETURNING id, created_at
	`
	err := db.conn.QueryRowContext(ctx, query,
		p.ID, p.Interval, p.PeriodStart, p.PeriodEnd, p.RealisedPL, p.UnrealisedPL,
		p.PaperRealisedPL, p.PaperUnrealisedPL, time.Now().UTC(),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save performance snapshot: %w", err)
	}
	return nil
}

// ListPerformanceSnapshots returns rollups newest first. A non-nil since
// limits the result to periods starting on or after it.
func (db *DB) ListPerformanceSnapshots(ctx context.Context, since *time.Time) ([]*models.PerformanceSnapshot, error) {
	query := `SELECT ` + performanceColumns + ` FROM performance_snapshots`
	var args []any
	if since != nil {
		query += ` WHERE period_start >= $1`
		args = append(args, *since)
	}
	query += ` ORDER BY period_start DESC, period_interval`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []*models.PerformanceSnapshot{}
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance snapshot: %w", err)
		}
		snaps = append(snaps, p)
	}
	return snaps, rows.Err()
}

// GetPerformanceSnapshot retrieves one rollup by ID
func (db *DB) GetPerformanceSnapshot(ctx context.Context, id uuid.UUID) (*models.PerformanceSnapshot, error) {
	query := `SELECT ` + performanceColumns + ` FROM performance_snapshots WHERE id = $1`
	p, err := scanPerformance(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("performance snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performance snapshot: %w", err)
	}
	return p, nil
}

// UpdatePerformanceSnapshot overwrites the figures of an existing rollup
func (db *DB) UpdatePerformanceSnapshot(ctx context.Context, p *models.PerformanceSnapshot) error {
	query := `
		UPDATE performance_snapshots SET
			period_interval = $2, period_start = $3, period_end = $4,
			realised_pl = $5, unrealised_pl = $6, paper_realised_pl = $7, paper_unrealised_pl = $8
		WHERE id = $1
	`
	result, err := db.conn.ExecContext(ctx, query,
		p.ID, p.Interval, p.PeriodStart, p.PeriodEnd,
		p.RealisedPL, p.UnrealisedPL, p.PaperRealisedPL, p.PaperUnrealisedPL,
	)
	if err != nil {
		return fmt.Errorf("failed to update performance snapshot: %w", err)
	}
	return checkAffected(result, "performance snapshot", p.ID)
}

// DeletePerformanceSnapshot removes a rollup by ID
func (db *DB) DeletePerformanceSnapshot(ctx context.Context, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM performance_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete performance snapshot: %w", err)
	}
	return checkAffected(result, "performance snapshot", id)
}

func scanPerformance(row scanner) (*models.PerformanceSnapshot, error) {
	var p models.PerformanceSnapshot
	err := row.Scan(
		&p.ID, &p.Interval, &p.PeriodStart, &p.PeriodEnd, &p.RealisedPL, &p.UnrealisedPL,
		&p.PaperRealisedPL, &p.PaperUnrealisedPL, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
