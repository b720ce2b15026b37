package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/currency"
	"github.com/trogers1052/trade-journal/internal/levels"
	"github.com/trogers1052/trade-journal/internal/models"
)

var levelsFlags struct {
	entry     string
	atr       string
	currency  string
	tradeType string
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print stop-loss, take-profit, break-even and size for an entry",
	Example: `  journal levels --entry 152.4 --atr 3.1 --currency USD
  journal levels --entry 2450 --atr 40 --currency GBX --type Short`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		entry, err := decimal.NewFromString(levelsFlags.entry)
		if err != nil {
			return fmt.Errorf("invalid --entry: %w", err)
		}
		atr, err := decimal.NewFromString(levelsFlags.atr)
		if err != nil {
			return fmt.Errorf("invalid --atr: %w", err)
		}

		rates, err := rateOverrides(cfg)
		if err != nil {
			return err
		}
		converter := currency.NewConverter(currency.NewStaticSource(rates))
		if err := converter.Refresh(cmd.Context()); err != nil {
			return err
		}

		params := levels.NewParams(cfg.Strategy.AvgSL, cfg.Strategy.AvgTP, cfg.Strategy.AccountRisk)
		calc := levels.NewCalculator(params, converter)
		lv, err := calc.ComputeForDirection(decimal.NewNullDecimal(entry), decimal.NewNullDecimal(atr),
			levelsFlags.currency, levelsFlags.tradeType)
		if err != nil && !errors.Is(err, levels.ErrNonPositiveRisk) {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(lv); encErr != nil {
			return encErr
		}
		return err
	},
}

func init() {
	f := levelsCmd.Flags()
	f.StringVar(&levelsFlags.entry, "entry", "", "entry price in the quote currency")
	f.StringVar(&levelsFlags.atr, "atr", "", "average true range in the quote currency")
	f.StringVar(&levelsFlags.currency, "currency", models.CurrencyGBP, "quote currency")
	f.StringVar(&levelsFlags.tradeType, "type", models.TradeTypeLong, "Long or Short")
	_ = levelsCmd.MarkFlagRequired("entry")
	_ = levelsCmd.MarkFlagRequired("atr")
}

// rateOverrides returns the rates file table when one is configured
func rateOverrides(cfg *config.Config) (map[string]decimal.Decimal, error) {
	if cfg.Rates.File == "" {
		return nil, nil
	}
	return config.LoadRatesFile(cfg.Rates.File)
}
