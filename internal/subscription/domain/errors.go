package domain

import "errors"

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrSeatChangeInFlight   = errors.New("seat_change_in_flight")
)
