package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/currency"
)

func TestLevelsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"levels", "--entry", "100", "--atr", "2"})
	require.NoError(t, Execute())

	var lv map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &lv))
	assert.Equal(t, "96.88", lv["stopLoss"])
	assert.Equal(t, "107.08", lv["takeProfit"])
	assert.Equal(t, "32", lv["quantity"])
}

func TestRateSource(t *testing.T) {
	cfg := &config.Config{}

	cfg.Rates.Source = "static"
	src, err := rateSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &currency.StaticSource{}, src)

	cfg.Rates.Source = "live"
	src, err = rateSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &currency.LiveSource{}, src)

	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rates:\n  USD: \"0.8\"\n"), 0o600))
	cfg.Rates.Source = "file"
	cfg.Rates.File = path
	src, err = rateSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &currency.StaticSource{}, src)

	cfg.Rates.Source = "carrier-pigeon"
	_, err = rateSource(cfg, nil)
	assert.Error(t, err)
}
