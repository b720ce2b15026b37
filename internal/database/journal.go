package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/models"
)

// CreateJournalEntry inserts a journal note
func (db *DB) CreateJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO journal_entries (id, trade_id, title, content, mood, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.conn.ExecContext(ctx, query,
		e.ID, e.TradeID, nullString(e.Title), e.Content, nullString(e.Mood), now,
	)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}
	e.CreatedAt = now
	return nil
}

// ListJournalEntries returns notes newest first, optionally for one trade
func (db *DB) ListJournalEntries(ctx context.Context, tradeID *uuid.UUID) ([]*models.JournalEntry, error) {
	query := `SELECT id, trade_id, title, content, mood, created_at FROM journal_entries`
	var args []any
	if tradeID != nil {
		query += ` WHERE trade_id = $1`
		args = append(args, *tradeID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.JournalEntry{}
	for rows.Next() {
		var e models.JournalEntry
		var tradeID uuid.NullUUID
		var title, mood sql.NullString

		if err := rows.Scan(&e.ID, &tradeID, &title, &e.Content, &mood, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if tradeID.Valid {
			id := tradeID.UUID
			e.TradeID = &id
		}
		e.Title = title.String
		e.Mood = mood.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
