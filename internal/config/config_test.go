package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1.56, cfg.Strategy.AvgSL)
	assert.Equal(t, 3.54, cfg.Strategy.AvgTP)
	assert.Equal(t, 100.0, cfg.Strategy.AccountRisk)
	assert.Equal(t, "static", cfg.Rates.Source)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("STRATEGY_AVG_SL", "1.69")
	t.Setenv("STRATEGY_AVG_TP", "3.27")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1.69, cfg.Strategy.AvgSL)
	assert.Equal(t, 3.27, cfg.Strategy.AvgTP)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_strategyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("avg_sl: 1.69\navg_tp: 3.27\n"), 0o600))
	t.Setenv("STRATEGY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1.69, cfg.Strategy.AvgSL)
	assert.Equal(t, 3.27, cfg.Strategy.AvgTP)
	assert.Equal(t, 100.0, cfg.Strategy.AccountRisk)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "journal", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/journal?sslmode=disable", d.ConnectionString())
}

func TestLoadRatesFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("parses rates", func(t *testing.T) {
		path := filepath.Join(dir, "rates.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rates:\n  USD: \"0.79\"\n  EUR: \"0.85\"\n"), 0o600))

		rates, err := LoadRatesFile(path)
		require.NoError(t, err)
		assert.True(t, rates["USD"].Equal(decimal.RequireFromString("0.79")))
		assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.85")))
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rates:\n  USD: \"0\"\n"), 0o600))

		_, err := LoadRatesFile(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRatesFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}
