package domain

import "time"

// RemoteSnapshot is the provider's view of a subscription, as returned by the
// provider client. UpdatedAt is the provider's last-modified timestamp.
type RemoteSnapshot struct {
	ProviderSubscriptionID string
	Status                 Status
	Quantity               int
	ProductID              int64
	VariantID              int64
	RenewsAt               *time.Time
	EndsAt                 *time.Time
	TrialEndsAt            *time.Time
	CardBrand              string
	CardLastFour           string
	UpdatedAt              time.Time
}

// Reconcile decides which of the local row and the freshly fetched provider
// snapshot is authoritative for display. The strictly later updated_at wins in
// full; a field-level merge could pair a status from one source with a renewal
// date from the other, so the winner is taken whole. On a tie the local row
// wins because it reflects the most recent write this process knows about.
// Read-path only: nothing is persisted here.
func Reconcile(local Subscription, remote RemoteSnapshot) Subscription {
	if !remote.UpdatedAt.After(local.UpdatedAt) {
		return local
	}

	merged := local
	merged.Status = remote.Status
	merged.Quantity = remote.Quantity
	merged.ProductID = remote.ProductID
	merged.VariantID = remote.VariantID
	merged.RenewsAt = remote.RenewsAt
	merged.EndsAt = remote.EndsAt
	merged.TrialEndsAt = remote.TrialEndsAt
	merged.CardBrand = remote.CardBrand
	merged.CardLastFour = remote.CardLastFour
	merged.UpdatedAt = remote.UpdatedAt
	return merged
}
