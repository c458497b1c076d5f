package domain

import "time"

const (
	// DefaultFreeTierSeats is the seat floor granted without a paid plan.
	DefaultFreeTierSeats = 3
	// GraduatedThreshold is the demand at which an organization pays for all
	// of its seats, not just the seats beyond the free tier.
	GraduatedThreshold = 4
)

const PlanFree = "free"

// Snapshot is computed on every read from live membership counts and the
// current override state. It is never persisted or cached.
type Snapshot struct {
	FreeTierSeats      int    `json:"free_tier_seats"`
	PaidSeats          int    `json:"paid_seats"`
	MaxSeats           int    `json:"max_seats"`
	CurrentSeats       int    `json:"current_seats"`
	PendingInvitations int    `json:"pending_invitations"`
	PendingRemovals    int    `json:"pending_removals"`
	AvailableSeats     int    `json:"available_seats"`
	UtilizationPct     int    `json:"utilization_pct"`
	Plan               string `json:"plan"`
}

type Input struct {
	// PaidSeats is the subscription's current_seats when an active-like
	// subscription exists, else 0.
	PaidSeats          int
	FreeTierSeats      int
	GraduatedThreshold int
	ActiveMembers      int
	PendingInvitations int
	PendingRemovals    int
	OverrideSeats      *int
	OverrideExpiresAt  *time.Time
	// Plan is the subscription's billing type label; empty means no paid plan.
	Plan string
	Now  time.Time
}

// Compute derives the seat snapshot. Graduated pricing: once demand reaches
// GraduatedThreshold, a paid organization pays for all seats it holds, so the
// seat ceiling is the paid quantity alone rather than paid plus free tier.
// An unexpired override replaces the computed ceiling but never drops it
// below the free-tier floor, and never changes PaidSeats. Pending removals
// stay billable until their effective date, so they do not reduce
// CurrentSeats.
func Compute(in Input) Snapshot {
	freeTier := in.FreeTierSeats
	if freeTier <= 0 {
		freeTier = DefaultFreeTierSeats
	}
	threshold := in.GraduatedThreshold
	if threshold <= 0 {
		threshold = GraduatedThreshold
	}

	paid := in.PaidSeats
	hasPaidPlan := in.Plan != "" && paid > 0

	maxSeats := freeTier
	if hasPaidPlan {
		demand := in.ActiveMembers + in.PendingInvitations
		if demand >= threshold || paid >= threshold {
			maxSeats = paid
		} else {
			maxSeats = paid + freeTier
		}
		if maxSeats < freeTier {
			maxSeats = freeTier
		}
	}

	if in.OverrideSeats != nil && (in.OverrideExpiresAt == nil || in.OverrideExpiresAt.After(in.Now)) {
		maxSeats = *in.OverrideSeats
		if maxSeats < freeTier {
			maxSeats = freeTier
		}
	}

	current := in.ActiveMembers + in.PendingInvitations

	available := maxSeats - current
	if available < 0 {
		available = 0
	}

	utilization := 0
	if maxSeats > 0 {
		utilization = current * 100 / maxSeats
	}

	plan := in.Plan
	if !hasPaidPlan {
		plan = PlanFree
	}

	return Snapshot{
		FreeTierSeats:      freeTier,
		PaidSeats:          in.PaidSeats,
		MaxSeats:           maxSeats,
		CurrentSeats:       current,
		PendingInvitations: in.PendingInvitations,
		PendingRemovals:    in.PendingRemovals,
		AvailableSeats:     available,
		UtilizationPct:     utilization,
		Plan:               plan,
	}
}
