// Package repository provides the usage store backends.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sternbild/horoskop/internal/ratelimit/domain"
)

type usageKey struct {
	conversationID string
	userID         string
}

// InMemoryStore keeps only the most recent usage per (conversation, user)
// key for the lifetime of the process. It is sufficient for limit-1
// policies and for tests; durable deployments use the gorm store.
type InMemoryStore struct {
	mu     sync.RWMutex
	latest map[usageKey]domain.Usage
	genID  *snowflake.Node
}

func NewInMemoryStore(genID *snowflake.Node) *InMemoryStore {
	return &InMemoryStore{
		latest: make(map[usageKey]domain.Usage),
		genID:  genID,
	}
}

func (s *InMemoryStore) GetUsages(_ context.Context, conversationID, userID string, limit int) ([]domain.Usage, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	usage, ok := s.latest[usageKey{conversationID: conversationID, userID: userID}]
	if !ok {
		return nil, nil
	}
	return []domain.Usage{usage}, nil
}

func (s *InMemoryStore) AddUsage(_ context.Context, conversationID, userID string, utcTime time.Time, referenceID, responseID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[usageKey{conversationID: conversationID, userID: userID}] = domain.Usage{
		ID:             s.genID.Generate(),
		ConversationID: conversationID,
		UserID:         userID,
		Time:           utcTime.UTC(),
		ReferenceID:    referenceID,
		ResponseID:     responseID,
	}
	return nil
}

func (s *InMemoryStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int64
	for key, usage := range s.latest {
		if usage.Time.Before(cutoff.UTC()) {
			delete(s.latest, key)
			pruned++
		}
	}
	return pruned, nil
}
