package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trogers1052/trade-journal/internal/database"
	"github.com/trogers1052/trade-journal/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, dir string) error {
			return db.MigrateUp(dir)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *database.DB, dir string) error {
			return db.MigrateDown(dir)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func withDB(fn func(db *database.DB, dir string) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := fn(db, cfg.Database.MigrationsDir); err != nil {
		return err
	}
	logger.Info("migrations complete")
	return nil
}
