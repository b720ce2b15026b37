package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// LiveSource fetches GBP-based quotes from an exchange rate API and inverts
// them into GBP-per-unit rates
type LiveSource struct {
	client *resty.Client
	url    string
}

type latestRatesResponse struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// NewLiveSource creates a source that queries url, which must return rates
// quoted against GBP
func NewLiveSource(url string, timeout time.Duration) *LiveSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &LiveSource{client: client, url: url}
}

// Fetch downloads the latest quotes for the supported currencies
func (s *LiveSource) Fetch(ctx context.Context) (Table, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("rates api returned status %d", resp.StatusCode())
	}

	var body latestRatesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if body.Result != "" && body.Result != "success" {
		return nil, fmt.Errorf("rates api result %q", body.Result)
	}
	if body.BaseCode != "" && body.BaseCode != models.CurrencyGBP {
		return nil, fmt.Errorf("rates api base %q, want GBP", body.BaseCode)
	}

	table := Table{}
	for _, code := range models.SupportedCurrencies {
		if code == models.CurrencyGBP || code == models.CurrencyGBX {
			continue
		}
		quote, ok := body.Rates[code]
		if !ok || quote <= 0 {
			return nil, fmt.Errorf("rates api has no usable quote for %s", code)
		}
		table[code] = decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(quote), 8)
	}
	pinSterling(table)
	return table, nil
}
