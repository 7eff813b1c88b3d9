// Package policy provides the rate limiting policy implementations.
package policy

import (
	"fmt"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
)

// DailyLimit allows up to limit usages per local calendar day. The quota
// resets as soon as any tracked usage is from a prior day.
type DailyLimit struct {
	limit int
}

func NewDailyLimit(limit int) (*DailyLimit, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w, got %d", domain.ErrInvalidLimit, limit)
	}
	return &DailyLimit{limit: limit}, nil
}

func (p *DailyLimit) RequestedHistory() int {
	return p.limit
}

func (p *DailyLimit) GetOffendingUsage(at time.Time, lastUsages []domain.Usage) (*domain.Usage, error) {
	if len(lastUsages) > p.limit {
		return nil, fmt.Errorf("%w (%d > %d)", domain.ErrHistoryContract, len(lastUsages), p.limit)
	}

	if len(lastUsages) < p.limit {
		// The quota is not exhausted yet.
		return nil, nil
	}

	for _, usage := range lastUsages {
		if !sameDay(usage.Time, at) {
			// At least one tracked slot is from another day.
			return nil, nil
		}
	}

	// All tracked usages are from today. Report the earliest-fetched one
	// as the blocking usage.
	return &lastUsages[len(lastUsages)-1], nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
