// Package scheduler runs the periodic retention housekeeping of the
// usage store.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/clock"
	"github.com/sternbild/horoskop/internal/observability/metrics"
	"github.com/sternbild/horoskop/internal/ratelimit/service"
)

var ErrInvalidConfig = errors.New("scheduler requires a limiter, a clock and a logger")

type Params struct {
	fx.In

	Limiter *service.Limiter
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
	Config  Config           `optional:"true"`
}

type Scheduler struct {
	limiter *service.Limiter
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
	cfg     Config
}

func New(p Params) (*Scheduler, error) {
	if p.Limiter == nil || p.Clock == nil || p.Log == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		limiter: p.Limiter,
		clock:   p.Clock,
		log:     p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		metrics: p.Metrics,
		cfg:     p.Config.withDefaults(),
	}, nil
}

// RunOnce executes a single housekeeping pass.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	pruned, err := s.limiter.DoHousekeeping(ctx, s.clock.Now())
	if err != nil {
		return err
	}
	s.metrics.RecordUsagesPruned(ctx, pruned)
	return nil
}

// RunForever runs housekeeping immediately and then on every interval
// tick until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("housekeeping run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
