package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a timestamped price observation for an open trade
type Snapshot struct {
	ID        int             `json:"id"`
	TradeID   uuid.UUID       `json:"tradeId"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	CreatedAt time.Time       `json:"createdAt"`
}
