// Package app assembles the storage backends selected by configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/config"
	"github.com/mamadbah2/ecotrack/internal/repository"
	"github.com/mamadbah2/ecotrack/internal/repository/memory"
	"github.com/mamadbah2/ecotrack/internal/repository/mongodb"
	"github.com/mamadbah2/ecotrack/internal/repository/sqlite"
)

const closeTimeout = 5 * time.Second

// Backends holds the opened storage. Archive is nil unless MongoDB is configured.
type Backends struct {
	Store   repository.Store
	Archive mongodb.Archive

	closers []func() error
}

// Close releases every opened connection.
func (b *Backends) Close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.closers = nil
	return firstErr
}

// OpenBackends opens the database slot for cfg.Store.Driver and, when a
// MongoDB URI is set, the digest archive. A MongoDB connection is shared when
// it also backs the slot.
func OpenBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backends{}

	var mongoRepo *mongodb.MongoDBRepository
	if cfg.MongoDB.Enabled() {
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Store.Key)
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		mongoRepo = repo
		b.Archive = repo
		b.closers = append(b.closers, func() error {
			cctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			return repo.Close(cctx)
		})
		logger.Info("mongodb connected", zap.String("database", cfg.MongoDB.DBName))
	}

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		store, err := sqlite.NewStore(ctx, cfg.Store.Path, cfg.Store.Key, logger.Named("store.sqlite"))
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		b.Store = store
		b.closers = append(b.closers, store.Close)
	case config.DriverMongoDB:
		if mongoRepo == nil {
			return nil, fmt.Errorf("store driver %q requires MONGODB_URI", cfg.Store.Driver)
		}
		b.Store = mongoRepo
	case config.DriverMemory:
		b.Store = memory.NewStore()
	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	logger.Info("store opened", zap.String("driver", cfg.Store.Driver), zap.String("key", cfg.Store.Key))
	return b, nil
}
