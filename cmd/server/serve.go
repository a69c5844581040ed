package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/geocoder"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/logging"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/routes"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/storage"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}

	db, err := openDB()
	if err != nil {
		return err
	}

	// DB log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, cfg.LogLevel),
		dbLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	if err := seedAdmin(context.Background(), db); err != nil {
		slog.Error("admin seeding failed", "error", err)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	var store storage.ObjectStorage = storage.Unconfigured{}
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Storage(context.Background(), storage.S3Config{
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			KeyPrefix: cfg.S3KeyPrefix,
		})
		if err != nil {
			return err
		}
		store = s3Store
	} else {
		slog.Warn("AWS_S3_BUCKET_NAME not set, image uploads are disabled")
	}

	if cfg.GeocoderAPIKey == "" {
		slog.Warn("GEOCODER_API_KEY not set, geocoding requests will be rejected by the provider")
	}

	app := routes.NewApp(cfg, routes.Deps{
		DB:       db,
		Geocoder: geocoder.NewMapQuest(cfg.GeocoderURL, cfg.GeocoderAPIKey, cfg.GeocoderTimeout),
		Storage:  store,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	var startErr error
	select {
	case <-quit:
		slog.Info("shutting down server...")
	case startErr = <-listenErr:
		slog.Error("server failed to start", "error", startErr)
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
	return startErr
}
