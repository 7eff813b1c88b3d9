// Package db opens the gorm handle backing the durable usage store.
package db

import (
	"context"

	"github.com/sternbild/horoskop/internal/config"
	obslogger "github.com/sternbild/horoskop/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open connects to the configured database. When the in-memory store is
// selected there is nothing to open and the handle is nil.
func Open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DB.Type == config.StoreTypeMemory {
		return nil, nil
	}

	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: obslogger.NewGormLogger(obslogger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			log.Info("closing database")
			return sqlDB.Close()
		},
	})

	return gormDB, nil
}

var Module = fx.Module("db",
	fx.Provide(Open),
)
