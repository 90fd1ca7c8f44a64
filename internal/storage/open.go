package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"coursebook/internal/config"
)

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	logger.Info("Opening course store", zap.String("driver", cfg.Driver))
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStore(logger), nil
	case config.DriverSQLite, config.DriverPostgres:
		return OpenGormStore(cfg.Driver, cfg.DSN, logger)
	case config.DriverBolt:
		return OpenBoltStore(cfg.DSN, logger)
	case config.DriverRedis:
		return OpenRedisStore(ctx, cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
