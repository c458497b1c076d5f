package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Counts is the derived membership demand for an organization. Members
// flagged for removal stay in ActiveMembers until their effective date passes;
// PendingRemovals only reports how many are scheduled to leave after now.
type Counts struct {
	ActiveMembers      int
	PendingInvitations int
	PendingRemovals    int
}

type Repository interface {
	Counts(ctx context.Context, db *gorm.DB, orgID snowflake.ID, now time.Time) (Counts, error)
}
