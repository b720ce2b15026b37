package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/trogers1052/trade-journal/internal/api"
	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/currency"
	"github.com/trogers1052/trade-journal/internal/database"
	"github.com/trogers1052/trade-journal/internal/filterstore"
	"github.com/trogers1052/trade-journal/internal/kafka"
	"github.com/trogers1052/trade-journal/internal/levels"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/scheduler"
	"github.com/trogers1052/trade-journal/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the snapshot consumer and the scheduled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.MigrateUp(cfg.Database.MigrationsDir); err != nil {
		return err
	}

	redisClient := connectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	source, err := rateSource(cfg, redisClient)
	if err != nil {
		return err
	}
	converter := currency.NewConverter(source)

	var opts []service.Option
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer producer.Close()
		opts = append(opts, service.WithPublisher(producer))
	}

	params := levels.NewParams(cfg.Strategy.AvgSL, cfg.Strategy.AvgTP, cfg.Strategy.AccountRisk)
	journal := service.New(db, converter, params, opts...)

	sched, err := scheduler.New()
	if err != nil {
		return err
	}
	if err := sched.RegisterJobs(*cfg, converter, journal); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Warn("failed to stop scheduler", zap.Error(err))
		}
	}()

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.SnapshotsTopic, cfg.Kafka.GroupID, db)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("kafka consumer stopped", zap.Error(err))
			}
		}()
	}

	var filters filterstore.Store = filterstore.NewMemoryStore()
	if redisClient != nil {
		filters = filterstore.NewRedisStore(redisClient)
	}

	handler := api.NewHandler(journal, filters, converter, db)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectRedis returns nil when Redis is unreachable; dashboard filters then
// live in memory and live rates go uncached
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return client
}

func rateSource(cfg *config.Config, client *redis.Client) (currency.Source, error) {
	switch cfg.Rates.Source {
	case "static", "":
		return currency.NewStaticSource(nil), nil
	case "file":
		rates, err := config.LoadRatesFile(cfg.Rates.File)
		if err != nil {
			return nil, err
		}
		return currency.NewStaticSource(rates), nil
	case "live":
		var source currency.Source = currency.NewLiveSource(cfg.Rates.LiveURL, cfg.Rates.Timeout)
		if client != nil {
			source = currency.NewCachedSource(source, client, cfg.Rates.CacheTTL)
		}
		return source, nil
	}
	return nil, fmt.Errorf("unknown rates source %q", cfg.Rates.Source)
}
