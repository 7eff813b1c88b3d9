package policy

import (
	"fmt"
	"time"

	"github.com/sternbild/horoskop/internal/ratelimit/domain"
)

// UserPass decorates another policy with an administrative bypass. When
// the most recent usage belongs to the configured user (and, with
// directChatOnly, happened in that user's private chat), the action is
// allowed unconditionally. In every other case the wrapped policy
// decides. The bypass only ever grants access, it never denies.
type UserPass struct {
	fallback       domain.Policy
	userID         string
	directChatOnly bool
}

func NewUserPass(fallback domain.Policy, userID int64, directChatOnly bool) *UserPass {
	return &UserPass{
		fallback:       fallback,
		userID:         domain.FormatID(userID),
		directChatOnly: directChatOnly,
	}
}

func (p *UserPass) RequestedHistory() int {
	return p.fallback.RequestedHistory()
}

func (p *UserPass) GetOffendingUsage(at time.Time, lastUsages []domain.Usage) (*domain.Usage, error) {
	if requested := p.fallback.RequestedHistory(); len(lastUsages) > requested {
		return nil, fmt.Errorf("%w (%d > %d)", domain.ErrHistoryContract, len(lastUsages), requested)
	}

	if len(lastUsages) > 0 {
		usage := lastUsages[0]
		if usage.UserID == p.userID {
			// A private 1:1 conversation carries the user's own ID.
			if !p.directChatOnly || usage.ConversationID == p.userID {
				return nil, nil
			}
		}
	}

	return p.fallback.GetOffendingUsage(at, lastUsages)
}
