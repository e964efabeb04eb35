// Package bootstrap builds the runtime dependencies shared by the server and
// the CLI from config.Options.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/config"
	"github.com/atinyakov/shortlink/internal/repository"
	"github.com/atinyakov/shortlink/internal/storage"
)

// Store is a link store the caller must close.
type Store interface {
	service.Storage
	Close() error
}

// OpenStorage opens the backend selected by opts.Backend and makes sure its
// schema exists.
func OpenStorage(ctx context.Context, opts *config.Options, logger *zap.Logger) (Store, error) {
	backend := opts.Backend()
	logger.Info("opening storage", zap.String("backend", backend))

	switch backend {
	case config.BackendPostgres:
		db, err := repository.InitDB(ctx, opts.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		return repository.CreatePostgresRepository(db, logger), nil

	case config.BackendSQLite:
		return repository.NewSQLiteRepository(ctx, opts.SQLiteDSN, logger)

	case config.BackendRedis:
		return repository.NewRedisRepository(ctx, opts.RedisAddr, logger)

	case config.BackendFile:
		return storage.NewFileStorage(opts.FilePath, logger)

	case config.BackendMemory:
		return storage.CreateMemoryStorage()

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
