package policy

import (
	"testing"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeeklyLimit_RejectsNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := NewWeeklyLimit(limit)
		assert.ErrorIs(t, err, domain.ErrInvalidLimit, "limit %d", limit)
	}
}

func TestWeeklyLimit_AllowsWhenQuotaNotReached(t *testing.T) {
	loc := berlin(t)
	p, err := NewWeeklyLimit(2)
	require.NoError(t, err)

	at := time.Date(2024, 3, 27, 12, 0, 0, 0, loc)
	offending, err := p.GetOffendingUsage(at, []domain.Usage{usageAt(at.Add(-time.Hour))})
	require.NoError(t, err)
	assert.Nil(t, offending)
}

func TestWeeklyLimit_WeekBoundary(t *testing.T) {
	loc := berlin(t)
	p, err := NewWeeklyLimit(1)
	require.NoError(t, err)

	// Monday of the week containing the 2024 spring-forward transition.
	usage := usageAt(time.Date(2024, 3, 25, 0, 0, 1, 0, loc))

	tests := []struct {
		name   string
		at     time.Time
		denied bool
	}{
		{
			name:   "same Monday",
			at:     time.Date(2024, 3, 25, 18, 0, 0, 0, loc),
			denied: true,
		},
		{
			name:   "Sunday end of week across DST change",
			at:     time.Date(2024, 3, 31, 23, 59, 59, 0, loc),
			denied: true,
		},
		{
			name:   "following Monday midnight",
			at:     time.Date(2024, 4, 1, 0, 0, 0, 0, loc),
			denied: false,
		},
		{
			name:   "well into the following week",
			at:     time.Date(2024, 4, 3, 9, 30, 0, 0, loc),
			denied: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			offending, err := p.GetOffendingUsage(tc.at, []domain.Usage{usage})
			require.NoError(t, err)
			if tc.denied {
				require.NotNil(t, offending)
				assert.Equal(t, usage, *offending)
			} else {
				assert.Nil(t, offending)
			}
		})
	}
}

func TestWeeklyLimit_UsageFromLastWeekAllows(t *testing.T) {
	loc := berlin(t)
	p, err := NewWeeklyLimit(1)
	require.NoError(t, err)

	usage := usageAt(time.Date(2024, 3, 24, 23, 59, 0, 0, loc)) // Sunday before
	at := time.Date(2024, 3, 25, 0, 0, 1, 0, loc)               // Monday after

	offending, err := p.GetOffendingUsage(at, []domain.Usage{usage})
	require.NoError(t, err)
	assert.Nil(t, offending)
}

func TestWeeklyLimit_HistoryContract(t *testing.T) {
	loc := berlin(t)
	p, err := NewWeeklyLimit(1)
	require.NoError(t, err)

	at := time.Date(2024, 3, 27, 12, 0, 0, 0, loc)
	history := []domain.Usage{
		usageAt(at.Add(-time.Hour)),
		usageAt(at.Add(-2 * time.Hour)),
	}

	_, err = p.GetOffendingUsage(at, history)
	assert.ErrorIs(t, err, domain.ErrHistoryContract)
}
