package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trogers1052/trade-journal/internal/models"
)

var now = time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func sampleTrade() *models.Trade {
	return &models.Trade{
		Ticker:    "AAPL",
		Status:    models.StatusOpen,
		AssetType: models.AssetTypeCFD,
		Strategy:  "2.1 breakout",
		Date:      now.AddDate(0, 0, -3),
	}
}

func TestMatches_filterComposition(t *testing.T) {
	trade := sampleTrade()

	real := models.DashboardFilterState{AccountTypeFilter: strPtr(models.AssetTypeRealMoney), SearchTerm: "aa", DateFilter: models.DateFilterAll}
	assert.True(t, Matches(trade, real, now))

	paper := models.DashboardFilterState{AccountTypeFilter: strPtr(models.AssetTypePaperMoney), DateFilter: models.DateFilterAll}
	assert.False(t, Matches(trade, paper, now))
}

func TestMatches_statusClause(t *testing.T) {
	state := models.DefaultFilterState()

	considering := sampleTrade()
	considering.Status = models.StatusConsidering
	assert.False(t, Matches(considering, state, now))

	state.ShowConsidering = true
	assert.True(t, Matches(considering, state, now))
	assert.False(t, Matches(sampleTrade(), state, now))

	state = models.DefaultFilterState()
	state.StatusFilter = models.StatusClosed
	assert.False(t, Matches(sampleTrade(), state, now))
	closed := sampleTrade()
	closed.Status = models.StatusClosed
	assert.True(t, Matches(closed, state, now))
}

func TestMatches_accountBuckets(t *testing.T) {
	tests := []struct {
		assetType string
		bucket    string
	}{
		{models.AssetTypeCFD, models.AssetTypeRealMoney},
		{models.AssetTypeRealMoney, models.AssetTypeRealMoney},
		{models.AssetTypePaperMoney, models.AssetTypePaperMoney},
		{models.AssetTypePaperCFD, models.AssetTypePaperMoney},
	}

	for _, tt := range tests {
		t.Run(tt.assetType, func(t *testing.T) {
			trade := sampleTrade()
			trade.AssetType = tt.assetType
			state := models.DashboardFilterState{AccountTypeFilter: strPtr(tt.bucket), DateFilter: models.DateFilterAll}
			assert.True(t, Matches(trade, state, now))
		})
	}
}

func TestMatches_searchClause(t *testing.T) {
	trade := sampleTrade()
	state := models.DashboardFilterState{DateFilter: models.DateFilterAll}

	for term, want := range map[string]bool{
		"":         true,
		"aa":       true,
		"AAP":      true,
		"apl":      false,
		"pl":       false,
		"breakout": true,
		"2.1":      true,
		"BREAK":    true,
		"3.0":      false,
	} {
		state.SearchTerm = term
		assert.Equal(t, want, Matches(trade, state, now), "term %q", term)
	}
}

func TestMatches_dateClause(t *testing.T) {
	trade := sampleTrade()

	t.Run("all", func(t *testing.T) {
		old := sampleTrade()
		old.Date = now.AddDate(-5, 0, 0)
		assert.True(t, Matches(old, models.DashboardFilterState{DateFilter: models.DateFilterAll}, now))
	})

	t.Run("last month", func(t *testing.T) {
		state := models.DashboardFilterState{DateFilter: models.DateFilterLastMonth}
		assert.True(t, Matches(trade, state, now))

		old := sampleTrade()
		old.Date = now.AddDate(0, -1, -1)
		assert.False(t, Matches(old, state, now))
	})

	t.Run("this year", func(t *testing.T) {
		state := models.DashboardFilterState{DateFilter: models.DateFilterThisYear}
		assert.True(t, Matches(trade, state, now))

		lastYear := sampleTrade()
		lastYear.Date = time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
		assert.False(t, Matches(lastYear, state, now))
	})

	t.Run("custom", func(t *testing.T) {
		start := now.AddDate(0, 0, -2)
		state := models.DashboardFilterState{DateFilter: models.DateFilterCustom, CustomStartDate: &start}
		assert.False(t, Matches(trade, state, now))

		start = now.AddDate(0, 0, -3)
		assert.True(t, Matches(trade, state, now))

		state.CustomStartDate = nil
		assert.True(t, Matches(trade, state, now))
	})
}
