package proration

import (
	"fmt"
	"math"
	"time"

	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
)

const daysPerYear = 365

// Quote prices a seat change for display and for the seat manager's result.
// Quantity-based (annual) increases are charged immediately for the days left
// in the term; decreases never produce a charge, the reduction is credited at
// renewal instead of issuing a refund. Usage-based (monthly) plans are
// metered by the provider, so no local amount is computed.
type Quote struct {
	ChargedAt            subscriptiondomain.ChargeTiming
	ProrationAmountCents *int64
	DaysRemaining        *int
	Message              string
}

func ForSeatChange(billingType subscriptiondomain.BillingType, perSeatYearCents int64, seatDelta int, renewsAt *time.Time, now time.Time) Quote {
	if billingType == subscriptiondomain.BillingTypeUsageBased {
		return Quote{
			ChargedAt: subscriptiondomain.ChargedEndOfPeriod,
			Message:   "Seat changes are billed automatically at the end of the current period.",
		}
	}

	days := DaysRemaining(renewsAt, now)

	if seatDelta <= 0 {
		d := days
		return Quote{
			ChargedAt:     subscriptiondomain.ChargedEndOfPeriod,
			DaysRemaining: &d,
			Message:       "The reduction takes effect now; the unused time is credited at renewal.",
		}
	}

	amount := Amount(perSeatYearCents, seatDelta, days)
	d := days
	return Quote{
		ChargedAt:            subscriptiondomain.ChargedImmediately,
		ProrationAmountCents: &amount,
		DaysRemaining:        &d,
		Message: fmt.Sprintf(
			"You will be charged %s immediately for %d seat(s) over the remaining %d day(s).",
			formatCents(amount), seatDelta, days,
		),
	}
}

// DaysRemaining counts whole days until renewal, rounding partial days up so
// the organization is never undercharged for a started day. Never negative.
func DaysRemaining(renewsAt *time.Time, now time.Time) int {
	if renewsAt == nil {
		return 0
	}
	remaining := renewsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// Amount is the prorated immediate charge in cents: the per-day seat rate
// times the added seats times the days left, rounded half-up to the cent.
func Amount(perSeatYearCents int64, seatDelta, daysRemaining int) int64 {
	if seatDelta <= 0 || daysRemaining <= 0 {
		return 0
	}
	dailyRate := float64(perSeatYearCents) / daysPerYear
	return int64(math.Floor(dailyRate*float64(seatDelta)*float64(daysRemaining) + 0.5))
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
