package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sternbild/horoskop/internal/ratelimit/domain"
	"gorm.io/gorm"
)

const defaultQueryTimeout = 5 * time.Second

// GormStore is the durable usage store. It works against sqlite (embedded)
// and postgres (shared) through the same gorm handle; the usages table
// carries a composite index on (conversation_id, user_id, time DESC) so
// top-N retrieval stays bounded.
type GormStore struct {
	db      *gorm.DB
	genID   *snowflake.Node
	timeout time.Duration
}

func NewGormStore(db *gorm.DB, genID *snowflake.Node, timeout time.Duration) *GormStore {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &GormStore{db: db, genID: genID, timeout: timeout}
}

func (s *GormStore) GetUsages(ctx context.Context, conversationID, userID string, limit int) ([]domain.Usage, error) {
	if limit < 1 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var usages []domain.Usage
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Order("time DESC").
		Limit(limit).
		Find(&usages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get usages: %v", domain.ErrStoreUnavailable, err)
	}

	for i := range usages {
		usages[i].Time = usages[i].Time.UTC()
	}
	return usages, nil
}

func (s *GormStore) AddUsage(ctx context.Context, conversationID, userID string, utcTime time.Time, referenceID, responseID *string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	usage := domain.Usage{
		ID:             s.genID.Generate(),
		ConversationID: conversationID,
		UserID:         userID,
		Time:           utcTime.UTC(),
		ReferenceID:    referenceID,
		ResponseID:     responseID,
	}
	if err := s.db.WithContext(ctx).Create(&usage).Error; err != nil {
		return fmt.Errorf("%w: add usage: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// PruneOlderThan deletes usages recorded before cutoff. A single ranged
// DELETE holds no long-lived lock, so readers and writers keep going
// while housekeeping runs.
func (s *GormStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result := s.db.WithContext(ctx).
		Where("time < ?", cutoff.UTC()).
		Delete(&domain.Usage{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: prune usages: %v", domain.ErrStoreUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}
