package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrMissingCredentials = errors.New("missing_provider_credentials")

// Subscription is the provider's representation, decoded off the wire.
// Raw carries the untouched attribute payload for persistence.
type Subscription struct {
	ID           string
	ItemID       string
	Status       string
	Quantity     int
	ProductID    int64
	VariantID    int64
	RenewsAt     *time.Time
	EndsAt       *time.Time
	TrialEndsAt  *time.Time
	CardBrand    string
	CardLastFour string
	UpdatedAt    time.Time
	Raw          []byte
}

// UpdateQuantityRequest targets the subscription item, not the subscription:
// seat counts live on the item at the provider. InvoiceImmediately selects
// between prorated immediate billing (quantity-based plans) and end-of-period
// metering (usage-based plans).
type UpdateQuantityRequest struct {
	SubscriptionID     string
	ItemID             string
	Quantity           int
	InvoiceImmediately bool
}

type UpdateVariantRequest struct {
	SubscriptionID string
	VariantID      int64
}

// Client is the capability set the billing engine needs from the external
// provider. Injected into the seat manager and the period-change guard so
// tests can substitute a fake.
type Client interface {
	GetSubscription(ctx context.Context, providerSubscriptionID string) (*Subscription, error)
	UpdateQuantity(ctx context.Context, req UpdateQuantityRequest) (*Subscription, error)
	UpdateVariant(ctx context.Context, req UpdateVariantRequest) (*Subscription, error)
}

// Error carries the provider's failure detail verbatim. Timeouts are wrapped
// in an Error with StatusCode 0 so callers treat them as hard failures.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider: %s", e.Detail)
	}
	return fmt.Sprintf("provider: %d %s", e.StatusCode, e.Detail)
}

// IsProviderError reports whether err originated at the provider boundary.
func IsProviderError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
