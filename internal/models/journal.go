package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a free-form note, optionally attached to a trade
type JournalEntry struct {
	ID        uuid.UUID  `json:"id"`
	TradeID   *uuid.UUID `json:"tradeId,omitempty"`
	Title     string     `json:"title,omitempty"`
	Content   string     `json:"content"`
	Mood      string     `json:"mood,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
