package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindActiveByOrgID(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Subscription, error)

	// UpdateSeats conditionally sets quantity and current_seats, guarded on
	// the previously read current_seats. Returns false when the guard missed,
	// which means a concurrent seat change won.
	UpdateSeats(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, prevSeats, newSeats int, payload []byte, now time.Time) (bool, error)

	// UpdateVariant records a plan-family variant change confirmed by the
	// provider. Quantity is preserved (the provider keeps it automatically).
	UpdateVariant(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, productID, variantID int64, billingType BillingType, now time.Time) error
}
