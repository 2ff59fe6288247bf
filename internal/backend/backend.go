// Package backend selects and builds the remote budget store from
// configuration. All backends satisfy remote.Store; sqlite and sheets also
// archive history.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/config"
	"bilancio/internal/core"
	"bilancio/internal/remote"
	"bilancio/internal/remote/api"
	gsheet "bilancio/internal/remote/google"
	"bilancio/internal/remote/memory"
	"bilancio/internal/storage"
)

// Type represents the kind of remote store backing the budget.
type Type string

const (
	MemoryBackend Type = "memory"
	APIBackend    Type = "api"
	SheetsBackend Type = "sheets"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, APIBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the store and an optional cleanup function.
type Result struct {
	Store   remote.Store
	Cleanup CleanupFunc
}

// Archiver returns the store's archiver when the backend keeps history,
// or nil for backends that only hold the latest budget.
func (r *Result) Archiver() remote.Archiver {
	if a, ok := r.Store.(remote.Archiver); ok {
		return a
	}
	return nil
}

// Factory creates remote stores based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the remote store named by cfg.DataBackend.
func (f *Factory) CreateStore(ctx context.Context, cfg *config.Config, reg *core.Registry) (*Result, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		return f.createSQLiteStore(cfg, reg)
	case SheetsBackend:
		return f.createSheetsStore(ctx, reg)
	case APIBackend:
		return f.createAPIStore(cfg, reg)
	case MemoryBackend:
		return f.createMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}

func (f *Factory) createSQLiteStore(cfg *config.Config, reg *core.Registry) (*Result, error) {
	repo, err := storage.NewRepository(cfg.SQLiteDBPath, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *Factory) createSheetsStore(ctx context.Context, reg *core.Registry) (*Result, error) {
	cli, err := gsheet.NewFromEnv(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")

	return &Result{Store: cli}, nil
}

func (f *Factory) createAPIStore(cfg *config.Config, reg *core.Registry) (*Result, error) {
	if cfg.BudgetAPIURL == "" {
		return nil, fmt.Errorf("budget API URL is required for api backend")
	}

	cli := api.New(cfg.BudgetAPIURL, cfg.BudgetAPIToken, reg)

	f.logger.Info("Initialized budget API backend", "url", cfg.BudgetAPIURL)

	return &Result{Store: cli}, nil
}

func (f *Factory) createMemoryStore() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{Store: memory.New()}, nil
}
