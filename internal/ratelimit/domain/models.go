// Package domain contains the usage model and the contracts between the
// rate limiter, its policies and its stores.
package domain

import (
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Usage is one recorded instance of a rate-limited action. Records are
// append-only: a usage is never mutated after it has been written.
type Usage struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	ConversationID string       `gorm:"type:text;not null;index:idx_usage_lookup,priority:1"`
	UserID         string       `gorm:"type:text;not null;index:idx_usage_lookup,priority:2"`
	Time           time.Time    `gorm:"not null;index:idx_usage_lookup,priority:3,sort:desc"`
	ReferenceID    *string      `gorm:"type:text"`
	ResponseID     *string      `gorm:"type:text"`
}

// TableName sets the database table name.
func (Usage) TableName() string { return "usages" }

// In returns a copy of the usage with its timestamp converted into the
// given location. The stored value stays UTC; conversion happens only on
// the way into a policy.
func (u Usage) In(loc *time.Location) Usage {
	u.Time = u.Time.In(loc)
	return u
}

// FormatID renders a numeric chat or user identifier in the canonical
// string form used as store key.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
