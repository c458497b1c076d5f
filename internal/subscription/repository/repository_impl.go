package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) FindActiveByOrgID(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*subscriptiondomain.Subscription, error) {
	var sub subscriptiondomain.Subscription
	err := db.WithContext(ctx).
		Where("org_id = ? AND status IN ?", orgID, subscriptiondomain.ActiveLikeStatuses).
		Limit(1).
		Find(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) UpdateSeats(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, prevSeats, newSeats int, payload []byte, now time.Time) (bool, error) {
	// Guarded on the previously read current_seats so that two concurrent
	// seat changes cannot both apply off the same stale read.
	res := db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET quantity = ?, current_seats = ?, provider_payload = ?, updated_at = ?
		 WHERE org_id = ? AND id = ? AND current_seats = ?`,
		newSeats,
		newSeats,
		payload,
		now,
		orgID,
		id,
		prevSeats,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) UpdateVariant(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, productID, variantID int64, billingType subscriptiondomain.BillingType, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET product_id = ?, variant_id = ?, billing_type = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		productID,
		variantID,
		billingType,
		now,
		orgID,
		id,
	).Error
}
