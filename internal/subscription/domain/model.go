package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type BillingType string

const (
	// BillingTypeUsageBased plans meter seat changes at the provider and bill
	// the delta at the next invoice (monthly plans).
	BillingTypeUsageBased BillingType = "usage_based"
	// BillingTypeQuantityBased plans bill seat increases immediately via
	// proration (yearly plans).
	BillingTypeQuantityBased BillingType = "quantity_based"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusOnTrial   Status = "on_trial"
	StatusPastDue   Status = "past_due"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// ActiveLikeStatuses are the statuses under which an organization can still
// use its paid plan. At most one subscription row per org carries one of
// these (enforced by a partial unique index).
var ActiveLikeStatuses = []Status{StatusActive, StatusOnTrial, StatusPastDue, StatusPaused}

func (s Status) IsActiveLike() bool {
	switch s {
	case StatusActive, StatusOnTrial, StatusPastDue, StatusPaused:
		return true
	default:
		return false
	}
}

// Subscription mirrors the provider subscription for one organization.
// Quantity is the seat count contracted at the provider; CurrentSeats is the
// locally tracked count and may lag Quantity during proration windows. Only
// the seat manager writes CurrentSeats, and only after the provider confirmed
// the new quantity.
type Subscription struct {
	ID                     snowflake.ID   `json:"id" gorm:"primaryKey"`
	OrgID                  snowflake.ID   `json:"org_id" gorm:"not null;index"`
	ProviderSubscriptionID string         `json:"provider_subscription_id" gorm:"type:text;not null"`
	ProviderItemID         string         `json:"provider_item_id" gorm:"type:text;not null"`
	ProductID              int64          `json:"product_id" gorm:"not null"`
	VariantID              int64          `json:"variant_id" gorm:"not null"`
	BillingType            BillingType    `json:"billing_type" gorm:"type:text;not null"`
	Status                 Status         `json:"status" gorm:"type:text;not null"`
	Quantity               int            `json:"quantity" gorm:"not null;default:0"`
	CurrentSeats           int            `json:"current_seats" gorm:"not null;default:0"`
	RenewsAt               *time.Time     `json:"renews_at"`
	EndsAt                 *time.Time     `json:"ends_at"`
	TrialEndsAt            *time.Time     `json:"trial_ends_at"`
	CardBrand              string         `json:"card_brand" gorm:"type:text"`
	CardLastFour           string         `json:"card_last_four" gorm:"type:text"`
	ProviderPayload        datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt              time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt              time.Time      `json:"updated_at" gorm:"not null"`
}

func (Subscription) TableName() string { return "subscriptions" }
