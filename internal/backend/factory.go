package backend

import (
	"context"
	"fmt"

	"cofrinho/internal/config"
	applog "cofrinho/internal/log"
	"cofrinho/internal/sheets"
	gsheet "cofrinho/internal/sheets/google"
	"cofrinho/internal/storage"
	"cofrinho/internal/store/memory"
)

type Factory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// Create opens the configured store. SQL backends are migrated before use.
func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Ping: repo.Ping, Cleanup: repo.Close}, nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized Postgres backend")
		return &Result{Store: repo, Ping: repo.Ping, Cleanup: repo.Close}, nil

	default:
		f.logger.WarnContext(ctx, "Initialized memory backend; data is lost on restart")
		return &Result{
			Store: memory.New(),
			Ping:  func(context.Context) error { return nil },
		}, nil
	}
}

// CreateExporter returns the Google Sheets exporter, or nil when no
// spreadsheet is configured.
func (f *Factory) CreateExporter(ctx context.Context, appConfig *config.Config) (sheets.Exporter, error) {
	if !appConfig.SheetsEnabled() {
		f.logger.InfoContext(ctx, "Spreadsheet export disabled")
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoalsSheet:      appConfig.GoogleGoalsSheetName,
		WeeksSheet:      appConfig.GoogleWeeklyTotalsSheet,
		CredentialsJSON: appConfig.GoogleServiceAccountJSON,
		CredentialsFile: appConfig.GoogleServiceAccountFile,
		OAuthClientJSON: appConfig.GoogleOAuthClientJSON,
		OAuthClientFile: appConfig.GoogleOAuthClientFile,
		OAuthTokenJSON:  appConfig.GoogleOAuthTokenJSON,
		OAuthTokenFile:  appConfig.GoogleOAuthTokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized Google Sheets exporter", "spreadsheet_id", appConfig.GoogleSpreadsheetID)
	return client, nil
}
