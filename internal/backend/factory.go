package backend

import (
	"context"
	"fmt"

	"kotsuhi/internal/config"
	"kotsuhi/internal/ledger/file"
	"kotsuhi/internal/ledger/google"
	"kotsuhi/internal/log"
	"kotsuhi/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(0, log.ComponentBackend)
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case FileBackend:
		l := file.New(cfg.RecordsFile, cfg.RateFile)
		f.logger.Info("Initialized file backend",
			"records_file", cfg.RecordsFile, "rate_file", cfg.RateFile)
		return &Result{Store: l}, nil

	case SheetsBackend:
		cli, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend")
		return &Result{Store: cli}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteLedger(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite ledger: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appCfg *config.Config) (Config, error) {
	if appCfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appCfg.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appCfg.DataBackend)
	}
	return Config{
		Type:         t,
		RecordsFile:  appCfg.RecordsFile,
		RateFile:     appCfg.RateFile,
		SQLiteDBPath: appCfg.SQLiteDBPath,
	}, nil
}
