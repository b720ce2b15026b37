package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Trading journal with live P&L, performance rollups and position sizing",
	Long: `journal tracks trades from idea to close.

It values open positions from price snapshots, freezes P&L at close, rolls
realised and unrealised P&L up weekly and monthly, and suggests stop-loss,
take-profit and size from entry and ATR.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, levelsCmd)
}

// setup loads configuration and starts the logger
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.Development); err != nil {
		return nil, fmt.Errorf("failed to initialise logger: %w", err)
	}
	return cfg, nil
}
