package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
	Server      ServerConfig
	Database    DatabaseConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Strategy    StrategyConfig
	Rates       RatesConfig
	Jobs        JobsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" envDefault:"8080"`
	Host         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER" envDefault:"postgres"`
	Password      string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName        string `env:"DB_NAME" envDefault:"tradejournal"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	MigrationsDir string `env:"DB_MIGRATIONS_DIR" envDefault:"db/migrations"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled        bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers        []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	EventsTopic    string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"trade-events"`
	SnapshotsTopic string   `env:"KAFKA_SNAPSHOTS_TOPIC" envDefault:"price-snapshots"`
	GroupID        string   `env:"KAFKA_GROUP_ID" envDefault:"trade-journal"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// StrategyConfig holds the position sizing parameters used by the level
// calculator. File, when set, points at a YAML file overriding these values.
type StrategyConfig struct {
	AvgSL       float64 `env:"STRATEGY_AVG_SL" envDefault:"1.56" yaml:"avg_sl"`
	AvgTP       float64 `env:"STRATEGY_AVG_TP" envDefault:"3.54" yaml:"avg_tp"`
	AccountRisk float64 `env:"STRATEGY_ACCOUNT_RISK" envDefault:"100" yaml:"account_risk"`
	File        string  `env:"STRATEGY_FILE" yaml:"-"`
}

// RatesConfig controls where currency rates come from
type RatesConfig struct {
	Source          string        `env:"RATES_SOURCE" envDefault:"static"`
	File            string        `env:"RATES_FILE"`
	LiveURL         string        `env:"RATES_LIVE_URL" envDefault:"https://open.er-api.com/v6/latest/GBP"`
	Timeout         time.Duration `env:"RATES_TIMEOUT" envDefault:"10s"`
	CacheTTL        time.Duration `env:"RATES_CACHE_TTL" envDefault:"24h"`
	RefreshInterval time.Duration `env:"RATES_REFRESH_INTERVAL" envDefault:"1h"`
}

// JobsConfig holds scheduler settings
type JobsConfig struct {
	Enabled           bool   `env:"JOBS_ENABLED" envDefault:"true"`
	WeeklyRollupCron  string `env:"JOBS_WEEKLY_ROLLUP_CRON" envDefault:"5 0 * * 1"`
	MonthlyRollupCron string `env:"JOBS_MONTHLY_ROLLUP_CRON" envDefault:"10 0 1 * *"`
}

// Load reads configuration from the environment, after loading an optional
// .env file
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Strategy.File != "" {
		if err := cfg.Strategy.loadFile(cfg.Strategy.File); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

// Addr returns the HTTP listen address
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func (s *StrategyConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read strategy file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse strategy file: %w", err)
	}
	return nil
}

type ratesFile struct {
	Rates map[string]string `yaml:"rates"`
}

// LoadRatesFile reads a YAML table of currency code to GBP rate, e.g.
//
//	rates:
//	  USD: "0.79"
//	  EUR: "0.85"
func LoadRatesFile(path string) (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}

	var f ratesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rates file: %w", err)
	}

	rates := make(map[string]decimal.Decimal, len(f.Rates))
	for code, raw := range f.Rates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for %s: %w", raw, code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive", code)
		}
		rates[code] = rate
	}
	return rates, nil
}
