package policy

import (
	"testing"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 42

func adminUsage(conversationID string, at time.Time) domain.Usage {
	return domain.Usage{
		ConversationID: conversationID,
		UserID:         domain.FormatID(adminID),
		Time:           at,
	}
}

func newDenyingFallback(t *testing.T) domain.Policy {
	t.Helper()
	p, err := NewDailyLimit(1)
	require.NoError(t, err)
	return p
}

func TestUserPass_BypassesInDirectChat(t *testing.T) {
	loc := berlin(t)
	p := NewUserPass(newDenyingFallback(t), adminID, true)

	at := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
	// The fallback would deny: one usage from today with limit 1.
	history := []domain.Usage{adminUsage("42", at.Add(-time.Hour))}

	offending, err := p.GetOffendingUsage(at, history)
	require.NoError(t, err)
	assert.Nil(t, offending)
}

func TestUserPass_FallsBackWhenConversationDiffers(t *testing.T) {
	loc := berlin(t)
	p := NewUserPass(newDenyingFallback(t), adminID, true)

	at := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
	history := []domain.Usage{adminUsage("group-chat", at.Add(-time.Hour))}

	offending, err := p.GetOffendingUsage(at, history)
	require.NoError(t, err)
	require.NotNil(t, offending)
	assert.Equal(t, history[0], *offending)
}

func TestUserPass_AnyConversationWhenNotDirectChatOnly(t *testing.T) {
	loc := berlin(t)
	p := NewUserPass(newDenyingFallback(t), adminID, false)

	at := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
	history := []domain.Usage{adminUsage("group-chat", at.Add(-time.Hour))}

	offending, err := p.GetOffendingUsage(at, history)
	require.NoError(t, err)
	assert.Nil(t, offending)
}

func TestUserPass_FallsBackForOtherUsers(t *testing.T) {
	loc := berlin(t)
	p := NewUserPass(newDenyingFallback(t), adminID, true)

	at := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
	history := []domain.Usage{usageAt(at.Add(-time.Hour))}

	offending, err := p.GetOffendingUsage(at, history)
	require.NoError(t, err)
	assert.NotNil(t, offending)
}

func TestUserPass_EmptyHistoryFallsBack(t *testing.T) {
	loc := berlin(t)
	p := NewUserPass(newDenyingFallback(t), adminID, true)

	offending, err := p.GetOffendingUsage(time.Date(2024, 3, 1, 15, 0, 0, 0, loc), nil)
	require.NoError(t, err)
	assert.Nil(t, offending)
}

func TestUserPass_DelegatesRequestedHistory(t *testing.T) {
	fallback, err := NewDailyLimit(5)
	require.NoError(t, err)

	p := NewUserPass(fallback, adminID, true)
	assert.Equal(t, 5, p.RequestedHistory())
}

func TestUserPass_HistoryContract(t *testing.T) {
	loc := berlin(t)
	p := NewUserPass(newDenyingFallback(t), adminID, true)

	at := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
	history := []domain.Usage{
		adminUsage("42", at.Add(-time.Hour)),
		adminUsage("42", at.Add(-2 * time.Hour)),
	}

	_, err := p.GetOffendingUsage(at, history)
	assert.ErrorIs(t, err, domain.ErrHistoryContract)
}
