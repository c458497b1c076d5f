package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/breezehr/breeze/internal/membership/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() membershipdomain.Repository {
	return &repo{}
}

func (r *repo) Counts(ctx context.Context, db *gorm.DB, orgID snowflake.ID, now time.Time) (membershipdomain.Counts, error) {
	var row struct {
		ActiveMembers      int `gorm:"column:active_members"`
		PendingInvitations int `gorm:"column:pending_invitations"`
		PendingRemovals    int `gorm:"column:pending_removals"`
	}

	// Members flagged for removal remain billable until the effective date,
	// so they are counted as active and reported as pending removals. A
	// removal whose effective date already passed is no longer pending.
	err := db.WithContext(ctx).Raw(
		`SELECT
		   (SELECT COUNT(1) FROM organization_members
		    WHERE org_id = ? AND status = 'active') AS active_members,
		   (SELECT COUNT(1) FROM organization_invitations
		    WHERE org_id = ? AND status = 'pending') AS pending_invitations,
		   (SELECT COUNT(1) FROM organization_members
		    WHERE org_id = ? AND status = 'active' AND removal_effective_at > ?) AS pending_removals`,
		orgID,
		orgID,
		orgID,
		now,
	).Scan(&row).Error
	if err != nil {
		return membershipdomain.Counts{}, err
	}

	return membershipdomain.Counts{
		ActiveMembers:      row.ActiveMembers,
		PendingInvitations: row.PendingInvitations,
		PendingRemovals:    row.PendingRemovals,
	}, nil
}
