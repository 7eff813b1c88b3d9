package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func strptr(s string) *string { return &s }

func TestInMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(newNode(t))

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.AddUsage(ctx, "c1", "u1", at, strptr("ref-1"), strptr("resp-1")))

	usages, err := store.GetUsages(ctx, "c1", "u1", 1)
	require.NoError(t, err)
	require.Len(t, usages, 1)

	got := usages[0]
	assert.Equal(t, "c1", got.ConversationID)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.Time.Equal(at))
	require.NotNil(t, got.ReferenceID)
	assert.Equal(t, "ref-1", *got.ReferenceID)
	require.NotNil(t, got.ResponseID)
	assert.Equal(t, "resp-1", *got.ResponseID)
}

func TestInMemoryStore_EmptyHistory(t *testing.T) {
	store := NewInMemoryStore(newNode(t))

	usages, err := store.GetUsages(context.Background(), "c1", "u1", 5)
	require.NoError(t, err)
	assert.Empty(t, usages)
}

func TestInMemoryStore_KeepsMostRecentPerKey(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(newNode(t))

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	require.NoError(t, store.AddUsage(ctx, "c1", "u1", first, nil, nil))
	require.NoError(t, store.AddUsage(ctx, "c1", "u1", second, nil, nil))

	usages, err := store.GetUsages(ctx, "c1", "u1", 10)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.True(t, usages[0].Time.Equal(second))
}

func TestInMemoryStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(newNode(t))

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.AddUsage(ctx, "c1", "u1", at, nil, nil))

	usages, err := store.GetUsages(ctx, "c1", "u2", 1)
	require.NoError(t, err)
	assert.Empty(t, usages)

	usages, err = store.GetUsages(ctx, "c2", "u1", 1)
	require.NoError(t, err)
	assert.Empty(t, usages)
}

func TestInMemoryStore_PruneOlderThan(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(newNode(t))

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.AddUsage(ctx, "c1", "u1", old, nil, nil))
	require.NoError(t, store.AddUsage(ctx, "c2", "u2", recent, nil, nil))

	pruned, err := store.PruneOlderThan(ctx, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	usages, err := store.GetUsages(ctx, "c1", "u1", 1)
	require.NoError(t, err)
	assert.Empty(t, usages)

	usages, err = store.GetUsages(ctx, "c2", "u2", 1)
	require.NoError(t, err)
	assert.Len(t, usages, 1)
}
