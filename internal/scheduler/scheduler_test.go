package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/clock"
	"github.com/sternbild/horoskop/internal/observability/metrics"
	"github.com/sternbild/horoskop/internal/ratelimit/policy"
	"github.com/sternbild/horoskop/internal/ratelimit/repository"
	"github.com/sternbild/horoskop/internal/ratelimit/service"
)

func newScheduler(t *testing.T, fake *clock.FakeClock, retention time.Duration) (*Scheduler, *repository.InMemoryStore) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	store := repository.NewInMemoryStore(node)

	pol, err := policy.NewDailyLimit(1)
	require.NoError(t, err)

	limiter, err := service.New(pol, store, time.UTC, retention, zap.NewNop())
	require.NoError(t, err)

	sched, err := New(Params{
		Limiter: limiter,
		Clock:   fake,
		Log:     zap.NewNop(),
		Config:  Config{RunInterval: time.Hour, JobTimeout: time.Second},
	})
	require.NoError(t, err)
	return sched, store
}

func TestRunOnce_PrunesExpiredUsages(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start)
	sched, store := newScheduler(t, fake, 24*time.Hour)

	require.NoError(t, store.AddUsage(context.Background(), "chat", "user", start, nil, nil))

	// Within retention: nothing to prune yet.
	require.NoError(t, sched.RunOnce(context.Background()))
	usages, err := store.GetUsages(context.Background(), "chat", "user", 1)
	require.NoError(t, err)
	assert.Len(t, usages, 1)

	fake.Advance(25 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))

	usages, err = store.GetUsages(context.Background(), "chat", "user", 1)
	require.NoError(t, err)
	assert.Empty(t, usages)
}

func TestRunOnce_ZeroRetentionLeavesStoreAlone(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start)
	sched, store := newScheduler(t, fake, 0)

	require.NoError(t, store.AddUsage(context.Background(), "chat", "user", start.Add(-1000*time.Hour), nil, nil))

	fake.Advance(2000 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))

	usages, err := store.GetUsages(context.Background(), "chat", "user", 1)
	require.NoError(t, err)
	assert.Len(t, usages, 1)
}

func TestRunOnce_RecordsPrunedCount(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	store := repository.NewInMemoryStore(node)

	pol, err := policy.NewDailyLimit(1)
	require.NoError(t, err)

	limiter, err := service.New(pol, store, time.UTC, 24*time.Hour, zap.NewNop())
	require.NoError(t, err)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := metrics.New(metrics.Config{ServiceName: "horoskop"}, provider)
	require.NoError(t, err)

	sched, err := New(Params{
		Limiter: limiter,
		Clock:   fake,
		Log:     zap.NewNop(),
		Metrics: m,
		Config:  Config{RunInterval: time.Hour, JobTimeout: time.Second},
	})
	require.NoError(t, err)

	require.NoError(t, store.AddUsage(ctx, "chat", "user", start, nil, nil))
	fake.Advance(25 * time.Hour)
	require.NoError(t, sched.RunOnce(ctx))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, instrument := range scope.Metrics {
			if instrument.Name != "horoskop_usages_pruned_total" {
				continue
			}
			sum, ok := instrument.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				total += point.Value
			}
		}
	}
	assert.Equal(t, int64(1), total)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
