package server

import (
	"github.com/gin-gonic/gin"

	seatdomain "github.com/breezehr/breeze/internal/seat/domain"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
)

type updateSeatQuantityRequest struct {
	NewQuantity int `json:"new_quantity"`
	// Accepted for wire compatibility; charge timing is derived from the
	// subscription's billing type, not from the caller.
	InvoiceImmediately bool `json:"invoice_immediately,omitempty"`
}

type changeBillingPeriodRequest struct {
	NewVariantID int64 `json:"new_variant_id"`
}

type subscriptionDetailResponse struct {
	Subscription subscriptiondomain.SubscriptionView `json:"subscription"`
	Seats        seatdomain.Snapshot                 `json:"seats"`
}

// @Summary      Update Seat Quantity
// @Description  Change the number of billed seats on the active subscription
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body updateSeatQuantityRequest true "Update Seat Quantity Request"
// @Success      200  {object}  DataResponse
// @Router       /billing/seats [post]
func (s *Server) UpdateSeatQuantity(c *gin.Context) {
	var req updateSeatQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.NewQuantity <= 0 {
		AbortWithError(c, subscriptiondomain.ErrInvalidQuantity)
		return
	}

	ctx := c.Request.Context()
	sub, err := s.subscriptionSvc.ActiveSubscription(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var result subscriptiondomain.SeatChangeResult
	if req.NewQuantity >= sub.Quantity {
		result, err = s.subscriptionSvc.AddSeats(ctx, req.NewQuantity)
	} else {
		result, err = s.subscriptionSvc.RemoveSeats(ctx, req.NewQuantity)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, result)
}

// @Summary      Change Billing Period
// @Description  Switch the active subscription to another plan variant
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body changeBillingPeriodRequest true "Change Billing Period Request"
// @Success      200  {object}  DataResponse
// @Router       /billing/period [post]
func (s *Server) ChangeBillingPeriod(c *gin.Context) {
	var req changeBillingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.planChangeSvc.ChangePeriod(c.Request.Context(), req.NewVariantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, result)
}

// @Summary      Get Seat Info
// @Description  Current seat usage and availability for the organization
// @Tags         billing
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /billing/seats [get]
func (s *Server) GetSeatInfo(c *gin.Context) {
	snapshot, err := s.seatSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, snapshot)
}

// @Summary      Get Subscription
// @Description  Reconciled subscription detail with seat utilization
// @Tags         billing
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /billing/subscription [get]
func (s *Server) GetSubscription(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := s.subscriptionSvc.GetReconciled(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	snapshot, err := s.seatSvc.Snapshot(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, subscriptionDetailResponse{
		Subscription: view,
		Seats:        snapshot,
	})
}
