package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer store.Close()

		appLogger.Info(ctx, "Schema is up to date", map[string]interface{}{"store_driver": cfg.StoreDriver})
		return nil
	},
}
