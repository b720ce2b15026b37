package portfolio

import (
	"strings"
	"time"

	"github.com/trogers1052/trade-journal/internal/models"
)

// Matches reports whether trade passes every clause of the filter state
func Matches(t *models.Trade, state models.DashboardFilterState, now time.Time) bool {
	return matchesStatus(t, state) &&
		matchesAccount(t, state) &&
		matchesSearch(t, state.SearchTerm) &&
		matchesDate(t, state, now)
}

func matchesStatus(t *models.Trade, state models.DashboardFilterState) bool {
	if state.ShowConsidering {
		return t.Status == models.StatusConsidering
	}
	if t.Status == models.StatusConsidering {
		return false
	}
	return state.StatusFilter == "" || t.Status == state.StatusFilter
}

func matchesAccount(t *models.Trade, state models.DashboardFilterState) bool {
	if state.AccountTypeFilter == nil {
		return true
	}
	return models.AccountBucket(t.AssetType) == *state.AccountTypeFilter
}

// matchesSearch is a case-insensitive ticker prefix or strategy substring match
func matchesSearch(t *models.Trade, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(t.Ticker), term) ||
		strings.Contains(strings.ToLower(t.Strategy), term)
}

func matchesDate(t *models.Trade, state models.DashboardFilterState, now time.Time) bool {
	switch state.DateFilter {
	case models.DateFilterLastMonth:
		return !t.Date.Before(now.AddDate(0, -1, 0))
	case models.DateFilterThisYear:
		return t.Date.In(now.Location()).Year() == now.Year()
	case models.DateFilterCustom:
		if state.CustomStartDate == nil {
			return true
		}
		return !t.Date.Before(*state.CustomStartDate)
	}
	return true
}
