package backend

import (
	"context"
	"fmt"

	"fintrack/internal/log"
	"fintrack/internal/state"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

var (
	_ state.Store = (*storage.SQLiteStore)(nil)
	_ state.Store = (*memory.Store)(nil)
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the configured store. The store is initialized and
// seeded before it is returned.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s (want one of %v)", config.Type, GetBackendTypeStrings())
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := storage.Open(ctx, config.SQLiteDBPath, config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		log.FieldPath, config.SQLiteDBPath,
		log.FieldSeedMode, string(config.Storage.WithDefaults().SeedMode))

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := memory.New(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory store: %w", err)
	}

	f.logger.Info("Initialized memory backend",
		log.FieldSeedMode, string(config.Storage.WithDefaults().SeedMode))

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
