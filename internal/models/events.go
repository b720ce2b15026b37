package models

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants
const (
	EventTradeOpened     = "TRADE_OPENED"
	EventTradeClosed     = "TRADE_CLOSED"
	EventTradeDeleted    = "TRADE_DELETED"
	EventAdjustmentAdded = "ADJUSTMENT_ADDED"
	EventPriceSnapshot   = "PRICE_SNAPSHOT"
)

// TradeEvent represents a Kafka event for trade lifecycle changes
type TradeEvent struct {
	EventType  string      `json:"event_type"`
	TradeID    uuid.UUID   `json:"trade_id"`
	Ticker     string      `json:"ticker"`
	Trade      *Trade      `json:"trade,omitempty"`
	Adjustment *Adjustment `json:"adjustment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// PriceSnapshotEvent is the inbound price feed message. Numbers arrive as
// strings to avoid float rounding on the wire.
type PriceSnapshotEvent struct {
	EventType string            `json:"event_type"`
	Source    string            `json:"source"`
	Data      PriceSnapshotData `json:"data"`
}

// PriceSnapshotData carries either a trade id or a ticker
type PriceSnapshotData struct {
	TradeID   string `json:"trade_id,omitempty"`
	Ticker    string `json:"ticker,omitempty"`
	Price     string `json:"price"`
	Timestamp string `json:"timestamp,omitempty"`
}
