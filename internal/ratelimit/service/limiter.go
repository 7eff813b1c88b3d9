// Package service contains the rate limiter facade composing a policy
// with a usage store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("limiter requires a policy, a store and a location")

// Limiter orchestrates the rate limit decision: it fetches exactly the
// history the policy requested, converts timestamps into the working time
// zone and delegates the verdict. Recording a usage is a separate call so
// that only actions which actually happened count against the quota.
//
// GetOffendingUsage followed by AddUsage is not atomic as a whole; two
// near-simultaneous actions for the same key can both pass the check.
// Deployments that need stricter semantics take the per-key advisory lock
// in the parent package around the whole sequence.
type Limiter struct {
	policy    domain.Policy
	store     domain.Store
	location  *time.Location
	retention time.Duration
	log       *zap.Logger
}

func New(policy domain.Policy, store domain.Store, location *time.Location, retention time.Duration, log *zap.Logger) (*Limiter, error) {
	if policy == nil || store == nil || location == nil {
		return nil, ErrInvalidConfig
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Limiter{
		policy:    policy,
		store:     store,
		location:  location,
		retention: retention,
		log:       log,
	}, nil
}

// GetOffendingUsage returns the prior usage blocking an action at the
// given time, or nil when the action is allowed. Store failures propagate:
// a limiter that cannot read history must not silently allow.
func (l *Limiter) GetOffendingUsage(ctx context.Context, conversationID, userID string, at time.Time) (*domain.Usage, error) {
	history, err := l.store.GetUsages(ctx, conversationID, userID, l.policy.RequestedHistory())
	if err != nil {
		return nil, err
	}

	local := make([]domain.Usage, len(history))
	for i, usage := range history {
		local[i] = usage.In(l.location)
	}

	return l.policy.GetOffendingUsage(at.In(l.location), local)
}

// AddUsage records a completed action. Call it at most once per gated
// action, and only after the action has been confirmed.
func (l *Limiter) AddUsage(ctx context.Context, conversationID, userID string, at time.Time, referenceID, responseID *string) error {
	return l.store.AddUsage(ctx, conversationID, userID, at.UTC(), referenceID, responseID)
}

// DoHousekeeping prunes usages older than the configured retention and
// returns how many records were removed. It is idempotent and safe to run
// on a schedule.
func (l *Limiter) DoHousekeeping(ctx context.Context, now time.Time) (int64, error) {
	if l.retention <= 0 {
		return 0, nil
	}

	cutoff := now.UTC().Add(-l.retention)
	pruned, err := l.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		l.log.Info("pruned usages",
			zap.Int64("count", pruned),
			zap.Time("cutoff", cutoff),
		)
	}
	return pruned, nil
}
