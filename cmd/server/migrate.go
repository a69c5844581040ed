package main

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		slog.Info("migrations applied", "driver", cfg.DBDriver)
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			slog.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, nothing to seed")
			return nil
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return seedAdmin(cmd.Context(), db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAdminCmd)
}
