// Package ratelimit wires the usage store, the policy chain and the
// limiter facade from process configuration.
package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/sternbild/horoskop/internal/config"
	"github.com/sternbild/horoskop/internal/ratelimit/domain"
	"github.com/sternbild/horoskop/internal/ratelimit/policy"
	"github.com/sternbild/horoskop/internal/ratelimit/repository"
	"github.com/sternbild/horoskop/internal/ratelimit/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("rate.limit",
	fx.Provide(
		NewStore,
		NewPolicy,
		NewLimiter,
		NewRedisClient,
		NewLocker,
	),
)

type StoreParams struct {
	fx.In

	Config config.Config
	DB     *gorm.DB `optional:"true"`
	GenID  *snowflake.Node
}

func NewStore(p StoreParams) (domain.Store, error) {
	switch p.Config.DB.Type {
	case config.StoreTypeMemory:
		return repository.NewInMemoryStore(p.GenID), nil
	case config.StoreTypeSQLite, config.StoreTypePostgres:
		if p.DB == nil {
			return nil, errors.New("durable usage store requires a database handle")
		}
		return repository.NewGormStore(p.DB, p.GenID, p.Config.DB.QueryTimeout), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", p.Config.DB.Type)
	}
}

// NewPolicy builds the policy chain: the configured base window, wrapped
// in the admin bypass when enabled.
func NewPolicy(cfg config.Config) (domain.Policy, error) {
	var (
		base domain.Policy
		err  error
	)
	switch cfg.RateLimit.Window {
	case config.PolicyWindowDaily:
		base, err = policy.NewDailyLimit(cfg.RateLimit.Limit)
	case config.PolicyWindowWeekly:
		base, err = policy.NewWeeklyLimit(cfg.RateLimit.Limit)
	default:
		err = fmt.Errorf("unknown rate limit window %q", cfg.RateLimit.Window)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit.AdminPass {
		base = policy.NewUserPass(base, cfg.RateLimit.AdminUserID, true)
	}
	return base, nil
}

func NewLimiter(cfg config.Config, pol domain.Policy, store domain.Store, log *zap.Logger) (*service.Limiter, error) {
	retention := time.Duration(cfg.RateLimit.RetentionDays) * 24 * time.Hour
	return service.New(pol, store, cfg.Location(), retention, log)
}

// NewRedisClient returns nil when the advisory lock is disabled; the bot
// then runs with the documented check-then-record race.
func NewRedisClient(cfg config.Config) *redis.Client {
	if !cfg.RateLimit.LockEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
