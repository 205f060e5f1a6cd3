// Package cli provides common CLI initialization utilities shared by
// cmd/expense-tracker and cmd/expense-export.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/sheets/google"
	"expensetracker/internal/storage"
)

// LoadEnvFile loads .env files for local development. A missing file is
// not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// SetupLogger initializes structured logging at the given level and makes it
// the process default. An unknown level falls back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	lvl, err := log.ParseLevel(level)
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenRecordStore creates the configured storage backend and wraps it in a
// record store. The returned cleanup closes the backend.
func OpenRecordStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*storage.RecordStore, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewRecordStore(res.Backend,
		storage.WithKey(cfg.StorageKey),
		storage.WithLogger(logger))
	return store, res.Cleanup, nil
}

// OpenPublisher connects the change-event publisher. It returns a nil
// Publisher when AMQP_URL is unset.
func OpenPublisher(ctx context.Context, cfg *config.Config, logger *log.Logger) (services.Publisher, func() error, error) {
	if cfg.AMQPURL == "" {
		logger.InfoContext(ctx, "AMQP_URL not set, change events disabled")
		return nil, func() error { return nil }, nil
	}
	p, err := amqp.NewPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect publisher: %w", err)
	}
	return p, p.Close, nil
}

// OpenSheetsExporter builds the Google Sheets exporter from configuration.
func OpenSheetsExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (*google.Exporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, errors.New("google sheets export requires GOOGLE_SPREADSHEET_ID")
	}
	return google.New(ctx, google.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		OAuthClientJSON: cfg.GoogleOAuthClientJSON,
		OAuthClientFile: cfg.GoogleOAuthClientFile,
		OAuthTokenFile:  cfg.GoogleOAuthTokenFile,
	}, logger)
}
