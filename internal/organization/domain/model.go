package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrOrganizationNotFound = errors.New("organization_not_found")

// Organization is read-only in the billing engine. The billing override
// columns are set by admin tooling elsewhere; this engine only honors them.
type Organization struct {
	ID                       snowflake.ID `json:"id" gorm:"primaryKey"`
	Name                     string       `json:"name" gorm:"type:text;not null"`
	BillingOverrideSeats     *int         `json:"billing_override_seats"`
	BillingOverrideExpiresAt *time.Time   `json:"billing_override_expires_at"`
	CreatedAt                time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt                time.Time    `json:"updated_at" gorm:"not null"`
}

func (Organization) TableName() string { return "organizations" }

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Organization, error)
}
