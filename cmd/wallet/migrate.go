package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/ezwallet/pkg/config"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			logger := logging.New(cfg.LogLevel)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			logger.Info("migrate_success", "store", cfg.StoreDriver)
			return nil
		},
	}
}
