package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/logging"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/repository"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Restaurant and meal marketplace API",
	Long: `Restaurant and meal marketplace API.

Running without a subcommand starts the HTTP server.

Examples:
  server              # Migrate and serve
  server migrate      # Apply schema migrations only
  server seed-admin   # Create the admin account from ADMIN_EMAIL/ADMIN_PASSWORD`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		logging.Setup(cfg.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// openDB connects and migrates the database.
func openDB() (*gorm.DB, error) {
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		return nil, errors.New("DB_PASSWORD environment variable is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func seedAdmin(ctx context.Context, db *gorm.DB) error {
	created, err := services.NewAuthService(repository.New(db), cfg).EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		slog.Info("admin account created", "email", cfg.AdminEmail)
	}
	return nil
}
