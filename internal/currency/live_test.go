package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","base_code":"GBP","rates":{"GBP":1,"USD":1.25,"EUR":1.16,"CHF":1.1,"JPY":190}}`))
	}))
	defer server.Close()

	table, err := NewLiveSource(server.URL, 5*time.Second).Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, table["USD"].Equal(decimal.RequireFromString("0.8")), table["USD"].String())
	assert.True(t, table["GBP"].Equal(decimal.NewFromInt(1)))
	assert.True(t, table["GBX"].Equal(decimal.RequireFromString("0.01")))
	assert.Contains(t, table, "EUR")
	assert.Contains(t, table, "CHF")
	assert.NotContains(t, table, "JPY")
}

func TestLiveSource_FetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"api error result", http.StatusOK, `{"result":"error"}`},
		{"wrong base", http.StatusOK, `{"result":"success","base_code":"USD","rates":{"GBP":0.8}}`},
		{"malformed body", http.StatusOK, `not json`},
		{"missing currencies", http.StatusOK, `{"result":"success","base_code":"GBP","rates":{"EUR":1.16}}`},
		{"zero quote", http.StatusOK, `{"result":"success","base_code":"GBP","rates":{"USD":0,"EUR":1.16,"CHF":1.1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewLiveSource(server.URL, 5*time.Second).Fetch(context.Background())
			require.Error(t, err)
		})
	}
}

func TestLiveSource_partialResponseLeavesConverterRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","base_code":"GBP","rates":{"EUR":1.16}}`))
	}))
	defer server.Close()

	c := NewConverter(NewLiveSource(server.URL, 5*time.Second))
	require.Error(t, c.Refresh(context.Background()))

	assert.True(t, c.RateToGBP("USD").Equal(decimal.RequireFromString("0.82467425")))
	assert.True(t, c.RateToGBP("CHF").Equal(decimal.RequireFromString("0.9115")))
}
