package domain

import "context"

// ChargeTiming says when the provider collects money for a seat change.
type ChargeTiming string

const (
	ChargedImmediately ChargeTiming = "immediately"
	ChargedEndOfPeriod ChargeTiming = "end_of_period"
)

// SeatChangeResult reports how a seat change was priced and applied.
// ProrationAmountCents and DaysRemaining are set only for quantity-based
// increases; NoChange means the requested quantity equalled the current one
// and neither the provider nor the local row was touched.
type SeatChangeResult struct {
	NoChange             bool         `json:"no_change,omitempty"`
	ChargedAt            ChargeTiming `json:"charged_at"`
	ProrationAmountCents *int64       `json:"proration_amount_cents,omitempty"`
	DaysRemaining        *int         `json:"days_remaining,omitempty"`
	Quantity             int          `json:"quantity"`
	Message              string       `json:"message"`
}

// SubscriptionView is the reconciled subscription enriched for display.
type SubscriptionView struct {
	Subscription
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name"`
}

type Service interface {
	// AddSeats and RemoveSeats are the only paths that change a
	// subscription's seat count. The provider call always precedes the local
	// write; on provider failure the local row is untouched.
	AddSeats(ctx context.Context, newQuantity int) (SeatChangeResult, error)
	RemoveSeats(ctx context.Context, newQuantity int) (SeatChangeResult, error)

	// GetReconciled fetches the provider snapshot and merges it with the
	// local row, most recent updated_at winning.
	GetReconciled(ctx context.Context) (SubscriptionView, error)

	// ActiveSubscription returns the org's active-like row, or
	// ErrSubscriptionNotFound.
	ActiveSubscription(ctx context.Context) (Subscription, error)
}
