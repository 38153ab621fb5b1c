package main

import (
	"errors"

	"github.com/spf13/cobra"

	pg "pet-care-planner/internal/adapters/storage/postgres"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones de Postgres",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer syncLogger(log)

		if cfg.DBDSN == "" {
			return errors.New("DB_DSN required for migrate")
		}

		db, err := pg.Open(cmd.Context(), cfg.DBDSN, pg.PoolOptions{MaxOpenConns: 1})
		if err != nil {
			return err
		}
		defer db.Close()

		if migrateDown {
			err = pg.MigrateDown(cmd.Context(), db)
		} else {
			err = pg.MigrateUp(cmd.Context(), db)
		}
		if err != nil {
			return err
		}
		log.Info("migrations applied", map[string]any{"down": migrateDown})
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "revertir en lugar de aplicar")
}
