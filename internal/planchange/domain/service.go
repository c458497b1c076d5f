package domain

import "context"

// Outcome classifies how a billing-period change request was resolved.
type Outcome string

const (
	// OutcomeChanged means the variant was switched in place at the provider.
	OutcomeChanged Outcome = "changed"
	// OutcomeRedirect means the change cannot be done in place; the caller
	// must go through a new checkout (monthly to yearly upgrades).
	OutcomeRedirect Outcome = "checkout_redirect"
)

// ChangeResult reports a resolved billing-period change. CheckoutURL is set
// only for OutcomeRedirect.
type ChangeResult struct {
	Outcome     Outcome `json:"outcome"`
	VariantID   int64   `json:"variant_id"`
	VariantName string  `json:"variant_name,omitempty"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
	Message     string  `json:"message"`
}

// Service decides whether a billing-period change is performed in place,
// redirected to checkout, or blocked until renewal.
type Service interface {
	ChangePeriod(ctx context.Context, newVariantID int64) (ChangeResult, error)
}
