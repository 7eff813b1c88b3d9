package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/sternbild/horoskop/internal/config"
	"github.com/sternbild/horoskop/internal/ratelimit/domain"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB `optional:"true"`
}

var Module = fx.Module("migrations",
	fx.Invoke(func(p Params) error {
		switch p.Config.DB.Type {
		case config.StoreTypeMemory:
			return nil
		case config.StoreTypeSQLite:
			// The pure-Go sqlite driver has no migrate support, the
			// schema is small enough for gorm to manage directly.
			return p.DB.AutoMigrate(&domain.Usage{})
		default:
			sqlDB, err := p.DB.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}
	}),
)
