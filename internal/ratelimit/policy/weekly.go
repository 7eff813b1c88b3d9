package policy

import (
	"fmt"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
)

// WeeklyLimit allows up to limit usages per ISO week. The week starts on
// Monday 00:00 in the policy's working time zone.
type WeeklyLimit struct {
	limit int
}

func NewWeeklyLimit(limit int) (*WeeklyLimit, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w, got %d", domain.ErrInvalidLimit, limit)
	}
	return &WeeklyLimit{limit: limit}, nil
}

func (p *WeeklyLimit) RequestedHistory() int {
	return p.limit
}

func (p *WeeklyLimit) GetOffendingUsage(at time.Time, lastUsages []domain.Usage) (*domain.Usage, error) {
	if len(lastUsages) > p.limit {
		return nil, fmt.Errorf("%w (%d > %d)", domain.ErrHistoryContract, len(lastUsages), p.limit)
	}

	if len(lastUsages) < p.limit {
		return nil, nil
	}

	monday := startOfWeek(at)
	for i := range lastUsages {
		if !lastUsages[i].Time.Before(monday) {
			return &lastUsages[i], nil
		}
	}

	return nil, nil
}

// startOfWeek returns the most recent Monday 00:00 at or before t, in t's
// location. Constructing the boundary through time.Date keeps it correct
// across DST transitions.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, t.Location())
}
