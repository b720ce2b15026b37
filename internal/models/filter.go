package models

import "time"

// Date filter constants
const (
	DateFilterAll       = "all"
	DateFilterLastMonth = "last-month"
	DateFilterThisYear  = "this-year"
	DateFilterCustom    = "custom"
)

// DashboardFilterState is the persisted dashboard filter preference
type DashboardFilterState struct {
	SearchTerm        string     `json:"searchTerm"`
	AccountTypeFilter *string    `json:"accountTypeFilter"`
	ShowConsidering   bool       `json:"showConsidering"`
	StatusFilter      string     `json:"statusFilter,omitempty"`
	DateFilter        string     `json:"dateFilter"`
	CustomStartDate   *time.Time `json:"customStartDate"`
}

// DefaultFilterState returns the state used when nothing has been saved
func DefaultFilterState() DashboardFilterState {
	return DashboardFilterState{
		DateFilter: DateFilterThisYear,
	}
}

// Normalize replaces unknown values with their defaults
func (s *DashboardFilterState) Normalize() {
	switch s.DateFilter {
	case DateFilterAll, DateFilterLastMonth, DateFilterThisYear, DateFilterCustom:
	default:
		s.DateFilter = DateFilterThisYear
	}
	if s.AccountTypeFilter != nil {
		bucket := *s.AccountTypeFilter
		if bucket != AssetTypeRealMoney && bucket != AssetTypePaperMoney {
			s.AccountTypeFilter = nil
		}
	}
	switch s.StatusFilter {
	case "", StatusOpen, StatusClosed:
	default:
		s.StatusFilter = ""
	}
}
