package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency constants
const (
	CurrencyGBP = "GBP"
	CurrencyGBX = "GBX"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyCHF = "CHF"
)

// Trade type constants
const (
	TradeTypeLong  = "Long"
	TradeTypeShort = "Short"
)

// Asset type constants
const (
	AssetTypeRealMoney  = "Real Money"
	AssetTypePaperMoney = "Paper Money"
	AssetTypeCFD        = "CFD"
	AssetTypePaperCFD   = "Paper CFD"
)

// Trade status constants
const (
	StatusOpen        = "Open"
	StatusClosed      = "Closed"
	StatusConsidering = "Considering"
)

// Outcome constants
const (
	OutcomeWon       = "Won"
	OutcomeLost      = "Lost"
	OutcomeBrokeEven = "Broke Even"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTrade      = errors.New("invalid trade")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// SupportedCurrencies lists the quote currencies a trade may carry
var SupportedCurrencies = []string{CurrencyGBP, CurrencyGBX, CurrencyUSD, CurrencyEUR, CurrencyCHF}

// Trade represents one trading position in the journal
type Trade struct {
	ID                uuid.UUID           `json:"id"`
	Ticker            string              `json:"ticker"`
	Market            string              `json:"market,omitempty"`
	Currency          string              `json:"currency"`
	Type              string              `json:"type"`
	AssetType         string              `json:"assetType"`
	Strategy          string              `json:"strategy,omitempty"`
	Status            string              `json:"status"`
	Date              time.Time           `json:"date"`
	EntryPrice        decimal.Decimal     `json:"entryPrice"`
	Quantity          decimal.Decimal     `json:"quantity"`
	StopLoss          decimal.NullDecimal `json:"stopLoss"`
	TakeProfit        decimal.NullDecimal `json:"takeProfit"`
	ATR               decimal.NullDecimal `json:"atr"`
	OvernightInterest decimal.Decimal     `json:"overnightInterest"` // GBP per day held
	Note              string              `json:"note,omitempty"`

	// Frozen when the trade is closed
	CloseDate              *time.Time          `json:"closeDate,omitempty"`
	ClosePrice             decimal.NullDecimal `json:"closePrice"`
	Pnl                    decimal.NullDecimal `json:"pnl"`
	NetProfit              decimal.NullDecimal `json:"netProfit"`
	AdjustmentsTotal       decimal.NullDecimal `json:"adjustmentsTotal"`
	OvernightInterestTotal decimal.NullDecimal `json:"overnightInterestTotal"`
	WNL                    string              `json:"wnl,omitempty"`

	// Live tracking for open trades
	ManualCurrentPrice decimal.NullDecimal `json:"manualCurrentPrice"`
	HighestClosePrice  decimal.NullDecimal `json:"highestClosePrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Direction returns +1 for Long and -1 for Short. Every signed P&L formula
// goes through this multiplier.
func Direction(tradeType string) decimal.Decimal {
	if tradeType == TradeTypeShort {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Direction returns the trade's P&L sign multiplier
func (t *Trade) Direction() decimal.Decimal {
	return Direction(t.Type)
}

// AccountBucket maps an asset type onto the dashboard's account filter buckets
func AccountBucket(assetType string) string {
	switch assetType {
	case AssetTypeCFD, AssetTypeRealMoney:
		return AssetTypeRealMoney
	case AssetTypePaperMoney, AssetTypePaperCFD:
		return AssetTypePaperMoney
	}
	return ""
}

// IsPaper reports whether the trade belongs to the paper account bucket
func (t *Trade) IsPaper() bool {
	return AccountBucket(t.AssetType) == AssetTypePaperMoney
}

// IsSupportedCurrency reports whether code is a quote currency trades may use
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// Validate checks the static terms of a trade
func (t *Trade) Validate() error {
	if t.Ticker == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidTrade)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	}
	if !t.EntryPrice.IsPositive() {
		return fmt.Errorf("%w: entry price must be positive", ErrInvalidTrade)
	}
	if !IsSupportedCurrency(t.Currency) {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidTrade, t.Currency)
	}
	if t.Type != TradeTypeLong && t.Type != TradeTypeShort {
		return fmt.Errorf("%w: unknown trade type %q", ErrInvalidTrade, t.Type)
	}
	if AccountBucket(t.AssetType) == "" {
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidTrade, t.AssetType)
	}
	switch t.Status {
	case StatusOpen, StatusClosed, StatusConsidering:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTrade, t.Status)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: entry date is required", ErrInvalidTrade)
	}
	return nil
}

// CanTransition reports whether a trade may move from one status to another.
// Closed is terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusConsidering:
		return to == StatusOpen || to == StatusClosed
	case StatusOpen:
		return to == StatusClosed
	}
	return false
}

// HasClosedFields reports whether all frozen close-time aggregates are present
func (t *Trade) HasClosedFields() bool {
	return t.CloseDate != nil && t.ClosePrice.Valid && t.Pnl.Valid && t.NetProfit.Valid &&
		t.AdjustmentsTotal.Valid && t.OvernightInterestTotal.Valid
}
