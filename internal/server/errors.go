package server

import (
	"errors"
	"net/http"
	"time"

	orgdomain "github.com/breezehr/breeze/internal/organization/domain"
	planchangedomain "github.com/breezehr/breeze/internal/planchange/domain"
	providerdomain "github.com/breezehr/breeze/internal/provider/domain"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
	"github.com/gin-gonic/gin"
)

// APIError is the wire form of every non-2xx response:
// {"error": {"code": ..., "message": ..., ...extras}}.
type APIError struct {
	Status  int
	Code    string
	Message string
	Extras  gin.H
}

func (e *APIError) Error() string { return e.Code }

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "request body could not be parsed"}
}

func newValidationError(code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// AbortWithError translates domain errors into HTTP responses. Provider
// detail text is passed through verbatim so support can quote it back to the
// provider; everything unrecognized collapses to a 500 without leaking
// internals.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)

	body := gin.H{"code": apiErr.Code, "message": apiErr.Message}
	for k, v := range apiErr.Extras {
		body[k] = v
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": body})
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if blocked, ok := planchangedomain.IsTransitionBlocked(err); ok {
		extras := gin.H{"reason": blocked.Reason}
		if blocked.RenewsAt != nil {
			extras["renewal_date"] = blocked.RenewsAt.Format(time.RFC3339)
		}
		return &APIError{
			Status:  http.StatusConflict,
			Code:    "transition_blocked",
			Message: "Switching to monthly billing is available once the current yearly term ends.",
			Extras:  extras,
		}
	}

	var providerErr *providerdomain.Error
	if errors.As(err, &providerErr) {
		return &APIError{
			Status:  http.StatusBadGateway,
			Code:    "provider_error",
			Message: providerErr.Detail,
		}
	}

	switch {
	case errors.Is(err, subscriptiondomain.ErrInvalidOrganization):
		return &APIError{Status: http.StatusUnauthorized, Code: "invalid_organization", Message: "organization context missing"}
	case errors.Is(err, orgdomain.ErrOrganizationNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "organization_not_found", Message: "organization not found"}
	case errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "subscription_not_found", Message: "no active subscription for this organization"}
	case errors.Is(err, subscriptiondomain.ErrInvalidQuantity):
		return newValidationError("invalid_quantity", "seat quantity must be a positive number in the requested direction")
	case errors.Is(err, planchangedomain.ErrInvalidVariant):
		return newValidationError("invalid_variant", "unknown plan variant")
	case errors.Is(err, planchangedomain.ErrVariantUnchanged):
		return newValidationError("variant_unchanged", "the requested variant is already active")
	case errors.Is(err, subscriptiondomain.ErrSeatChangeInFlight):
		return &APIError{Status: http.StatusConflict, Code: "seat_change_in_flight", Message: "another seat change is being processed; try again shortly"}
	default:
		return &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error"}
	}
}
