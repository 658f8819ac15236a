package backend

import (
	"fmt"

	"fintrack/internal/log"
	"fintrack/internal/ports"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

// Open creates the store selected by cfg. The caller closes it.
func Open(cfg Config, logger *log.Logger) (ports.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.WithComponent(log.ComponentBackend)

	switch cfg.Type {
	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return memory.NewStore(), nil

	case FileBackend:
		store, err := memory.NewFileStore(cfg.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		logger.Info("Initialized file backend", "data_directory", cfg.DataDirectory)
		return store, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres repository: %w", err)
		}
		logger.Info("Initialized postgres backend")
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
