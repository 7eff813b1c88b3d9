package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidLimit reports a non-positive limit at policy construction.
	ErrInvalidLimit = errors.New("rate limit must be at least 1")

	// ErrHistoryContract reports that a policy received more usages than
	// it requested. This is an orchestration bug, not a runtime condition.
	ErrHistoryContract = errors.New("history exceeds requested length")

	// ErrStoreUnavailable reports that the usage store could not be
	// reached. Callers must not treat this as "allowed".
	ErrStoreUnavailable = errors.New("usage store unavailable")
)

// Policy decides whether a new action at a given time is allowed, based on
// a bounded window of prior usages.
//
// The caller guarantees that lastUsages holds at most RequestedHistory
// items, ordered newest first, with timestamps already converted into the
// policy's working time zone. A non-nil result always aliases an element
// of lastUsages so that callers can reference the blocking action.
type Policy interface {
	RequestedHistory() int
	GetOffendingUsage(at time.Time, lastUsages []Usage) (*Usage, error)
}

// Store persists usage records keyed by (conversation, user).
//
// Timestamps cross this boundary in UTC, in both directions. GetUsages
// returns the most recent records first and never pads: fewer than limit
// records is a normal result. I/O failures are wrapped in
// ErrStoreUnavailable.
type Store interface {
	GetUsages(ctx context.Context, conversationID, userID string, limit int) ([]Usage, error)
	AddUsage(ctx context.Context, conversationID, userID string, utcTime time.Time, referenceID, responseID *string) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
