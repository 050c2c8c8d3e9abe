// Package store selects the key-value backend from configuration.
package store

import (
	"fmt"
	"log/slog"

	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/config"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
)

// New returns the configured store. Callers should close it if it implements
// io.Closer.
func New(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Storage {
	case "redis":
		s, err := storage.NewRedisStore(storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		logger.Info("using redis storage", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "prefix", cfg.RedisPrefix)
		return s, nil
	case "memory", "":
		logger.Info("using in-memory storage")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
