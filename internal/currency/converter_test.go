package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	table Table
	err   error
	calls int
}

func (s *stubSource) Fetch(ctx context.Context) (Table, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.table.Clone(), nil
}

func TestRateToGBP_knownCurrencies(t *testing.T) {
	c := NewConverter(nil)

	assert.True(t, c.RateToGBP("GBP").Equal(decimal.NewFromInt(1)))
	assert.True(t, c.RateToGBP("GBX").Equal(decimal.RequireFromString("0.01")))
	assert.True(t, c.RateToGBP("USD").Equal(decimal.RequireFromString("0.82467425")))
	assert.True(t, c.RateToGBP("EUR").Equal(decimal.RequireFromString("0.8719")))
	assert.True(t, c.RateToGBP("CHF").Equal(decimal.RequireFromString("0.9115")))
}

func TestRateToGBP_unknownFallsBackToOne(t *testing.T) {
	c := NewConverter(nil)

	for _, code := range []string{"XYZ", "", "gbp", "JPY"} {
		assert.True(t, c.RateToGBP(code).Equal(decimal.NewFromInt(1)), "code %q", code)
	}
}

func TestToGBP(t *testing.T) {
	c := NewConverter(nil)

	got := c.ToGBP(decimal.NewFromInt(250), "GBX")
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")), got.String())
}

func TestRefresh_swapsTable(t *testing.T) {
	src := &stubSource{table: Table{"GBP": decimal.NewFromInt(1), "USD": decimal.RequireFromString("0.75")}}
	c := NewConverter(src)

	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.RateToGBP("USD").Equal(decimal.RequireFromString("0.75")))
	assert.Equal(t, 1, src.calls)
}

func TestRefresh_partialTableKeepsOmittedRates(t *testing.T) {
	src := &stubSource{table: Table{"GBP": decimal.NewFromInt(1), "EUR": decimal.RequireFromString("0.86")}}
	c := NewConverter(src)

	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.RateToGBP("EUR").Equal(decimal.RequireFromString("0.86")))
	assert.True(t, c.RateToGBP("USD").Equal(decimal.RequireFromString("0.82467425")))
	assert.True(t, c.RateToGBP("CHF").Equal(decimal.RequireFromString("0.9115")))
}

func TestRefresh_failureKeepsPreviousTable(t *testing.T) {
	src := &stubSource{err: errors.New("boom")}
	c := NewConverter(src)

	err := c.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, c.RateToGBP("USD").Equal(decimal.RequireFromString("0.82467425")))
}

func TestRefresh_emptyTableRejected(t *testing.T) {
	c := NewConverter(&stubSource{table: Table{}})

	require.Error(t, c.Refresh(context.Background()))
	assert.True(t, c.RateToGBP("EUR").Equal(decimal.RequireFromString("0.8719")))
}

func TestRates_returnsCopy(t *testing.T) {
	c := NewConverter(nil)

	rates := c.Rates()
	rates["USD"] = decimal.NewFromInt(99)

	assert.True(t, c.RateToGBP("USD").Equal(decimal.RequireFromString("0.82467425")))
}

func TestStaticSource_overridesAndPinsSterling(t *testing.T) {
	src := NewStaticSource(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("0.745"),
		"GBX": decimal.NewFromInt(5),
		"JPY": decimal.RequireFromString("0.0052"),
	})

	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, table["USD"].Equal(decimal.RequireFromString("0.745")))
	assert.True(t, table["GBX"].Equal(decimal.RequireFromString("0.01")))
	assert.True(t, table["JPY"].Equal(decimal.RequireFromString("0.0052")))
	assert.True(t, table["EUR"].Equal(decimal.RequireFromString("0.8719")))
}
