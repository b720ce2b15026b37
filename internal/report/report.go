// Package report renders the journal as an Excel workbook.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/portfolio"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	TradesSheet      = "Trades"
	PerformanceSheet = "Performance"

	dateFormat = "2006-01-02"
)

var tradeHeaders = []string{
	"Ticker", "Status", "Type", "Account", "Currency", "Strategy", "Entry Date", "Entry Price",
	"Quantity", "Close Date", "Close Price", "Price Source", "Gross P&L", "Adjustments",
	"Overnight Interest", "Net P&L", "Days Held", "Outcome",
}

var performanceHeaders = []string{
	"Interval", "Period Start", "Period End", "Realised P&L", "Unrealised P&L",
	"Paper Realised P&L", "Paper Unrealised P&L",
}

// Generate builds the workbook and returns its bytes
func Generate(entries []portfolio.Entry, perf []*models.PerformanceSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", TradesSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(PerformanceSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, TradesSheet, tradeHeaders, headerStyle); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if err := f.SetSheetRow(TradesSheet, cell(1, i+2), tradeRow(e)); err != nil {
			return nil, fmt.Errorf("failed to write trade row: %w", err)
		}
	}

	if err := writeHeader(f, PerformanceSheet, performanceHeaders, headerStyle); err != nil {
		return nil, err
	}
	for i, p := range perf {
		row := []any{
			p.Interval,
			p.PeriodStart.Format(dateFormat),
			p.PeriodEnd.Format(dateFormat),
			p.RealisedPL.InexactFloat64(),
			p.UnrealisedPL.InexactFloat64(),
			p.PaperRealisedPL.InexactFloat64(),
			p.PaperUnrealisedPL.InexactFloat64(),
		}
		if err := f.SetSheetRow(PerformanceSheet, cell(1, i+2), &row); err != nil {
			return nil, fmt.Errorf("failed to write performance row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", cell(len(headers), 1), style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func tradeRow(e portfolio.Entry) *[]any {
	t := e.Trade
	closeDate := ""
	if t.CloseDate != nil {
		closeDate = t.CloseDate.Format(dateFormat)
	}

	row := []any{
		t.Ticker, t.Status, t.Type, models.AccountBucket(t.AssetType), t.Currency, t.Strategy,
		t.Date.Format(dateFormat), t.EntryPrice.InexactFloat64(), t.Quantity.InexactFloat64(),
		closeDate, nullable(t.ClosePrice),
	}

	if e.Economics == nil {
		row = append(row, "", "", "", "", "", "", t.WNL)
		return &row
	}
	econ := e.Economics
	row = append(row,
		econ.PriceSource,
		econ.GrossProfit.InexactFloat64(),
		econ.TotalAdjustments.InexactFloat64(),
		econ.OvernightInterestTotal.InexactFloat64(),
		econ.NetProfit.InexactFloat64(),
		econ.DaysHeld,
		t.WNL,
	)
	return &row
}

// nullable leaves the cell blank rather than writing zero
func nullable(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
