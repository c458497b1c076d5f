package service

import (
	"context"

	"github.com/breezehr/breeze/internal/clock"
	"github.com/breezehr/breeze/internal/config"
	"github.com/breezehr/breeze/internal/observability"
	"github.com/breezehr/breeze/internal/orgcontext"
	"github.com/breezehr/breeze/internal/proration"
	providerdomain "github.com/breezehr/breeze/internal/provider/domain"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Config config.Config
	Redis  *redis.Client `optional:"true"`

	Repo     subscriptiondomain.Repository
	Provider providerdomain.Client
	Metrics  *observability.ProviderMetrics `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cfg   config.Config
	redis *redis.Client

	repo     subscriptiondomain.Repository
	provider providerdomain.Client
	metrics  *observability.ProviderMetrics
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		clock: p.Clock,
		cfg:   p.Config,
		redis: p.Redis,

		repo:     p.Repo,
		provider: p.Provider,
		metrics:  p.Metrics,
	}
}

// AddSeats implements domain.Service.
func (s *Service) AddSeats(ctx context.Context, newQuantity int) (subscriptiondomain.SeatChangeResult, error) {
	return s.changeSeats(ctx, newQuantity, true)
}

// RemoveSeats implements domain.Service.
func (s *Service) RemoveSeats(ctx context.Context, newQuantity int) (subscriptiondomain.SeatChangeResult, error) {
	return s.changeSeats(ctx, newQuantity, false)
}

func (s *Service) changeSeats(ctx context.Context, newQuantity int, increase bool) (subscriptiondomain.SeatChangeResult, error) {
	sub, err := s.activeSubscription(ctx)
	if err != nil {
		return subscriptiondomain.SeatChangeResult{}, err
	}

	if newQuantity <= 0 {
		return subscriptiondomain.SeatChangeResult{}, subscriptiondomain.ErrInvalidQuantity
	}

	// No-op detection happens before any provider contact.
	if newQuantity == sub.Quantity {
		return subscriptiondomain.SeatChangeResult{
			NoChange:  true,
			ChargedAt: subscriptiondomain.ChargedEndOfPeriod,
			Quantity:  sub.Quantity,
			Message:   "Seat count is already at the requested quantity.",
		}, nil
	}

	delta := newQuantity - sub.Quantity
	if increase && delta < 0 {
		return subscriptiondomain.SeatChangeResult{}, subscriptiondomain.ErrInvalidQuantity
	}
	if !increase && delta > 0 {
		return subscriptiondomain.SeatChangeResult{}, subscriptiondomain.ErrInvalidQuantity
	}

	release, acquired, err := s.acquireSeatLease(ctx, sub.ID)
	if err != nil {
		return subscriptiondomain.SeatChangeResult{}, err
	}
	if !acquired {
		return subscriptiondomain.SeatChangeResult{}, subscriptiondomain.ErrSeatChangeInFlight
	}
	defer release()

	now := s.clock.Now(ctx)
	quote := proration.ForSeatChange(sub.BillingType, s.cfg.Billing.SeatPriceYearCents, delta, sub.RenewsAt, now)

	// Quantity-based increases are invoiced immediately for the prorated
	// amount; everything else settles at the next invoice.
	invoiceImmediately := sub.BillingType == subscriptiondomain.BillingTypeQuantityBased && delta > 0

	// Provider first. Seats are never credited locally off an unconfirmed
	// request; if this call fails the local row stays untouched.
	confirmed, err := s.provider.UpdateQuantity(ctx, providerdomain.UpdateQuantityRequest{
		SubscriptionID:     sub.ProviderSubscriptionID,
		ItemID:             sub.ProviderItemID,
		Quantity:           newQuantity,
		InvoiceImmediately: invoiceImmediately,
	})
	if err != nil {
		return subscriptiondomain.SeatChangeResult{}, err
	}

	applied, err := s.repo.UpdateSeats(ctx, s.db, sub.OrgID, sub.ID, sub.CurrentSeats, newQuantity, confirmed.Raw, now)
	if err != nil {
		// The provider accepted the new quantity but the local row did not
		// record it. Reconciliation (next provider read or webhook) heals
		// this; it needs operator visibility, not a user-facing retry.
		s.recordDivergence(sub.OrgID.String(), sub.ID.String(), err)
		return subscriptiondomain.SeatChangeResult{}, err
	}
	if !applied {
		s.recordDivergence(sub.OrgID.String(), sub.ID.String(), subscriptiondomain.ErrSeatChangeInFlight)
		return subscriptiondomain.SeatChangeResult{}, subscriptiondomain.ErrSeatChangeInFlight
	}

	result := subscriptiondomain.SeatChangeResult{
		ChargedAt:            quote.ChargedAt,
		ProrationAmountCents: quote.ProrationAmountCents,
		DaysRemaining:        quote.DaysRemaining,
		Quantity:             newQuantity,
		Message:              quote.Message,
	}
	return result, nil
}

// GetReconciled implements domain.Service.
func (s *Service) GetReconciled(ctx context.Context) (subscriptiondomain.SubscriptionView, error) {
	sub, err := s.activeSubscription(ctx)
	if err != nil {
		return subscriptiondomain.SubscriptionView{}, err
	}

	remote, err := s.provider.GetSubscription(ctx, sub.ProviderSubscriptionID)
	if err != nil {
		return subscriptiondomain.SubscriptionView{}, err
	}

	reconciled := subscriptiondomain.Reconcile(sub, subscriptiondomain.RemoteSnapshot{
		ProviderSubscriptionID: remote.ID,
		Status:                 subscriptiondomain.Status(remote.Status),
		Quantity:               remote.Quantity,
		ProductID:              remote.ProductID,
		VariantID:              remote.VariantID,
		RenewsAt:               remote.RenewsAt,
		EndsAt:                 remote.EndsAt,
		TrialEndsAt:            remote.TrialEndsAt,
		CardBrand:              remote.CardBrand,
		CardLastFour:           remote.CardLastFour,
		UpdatedAt:              remote.UpdatedAt,
	})

	return subscriptiondomain.SubscriptionView{
		Subscription: reconciled,
		ProductName:  s.productName(reconciled.ProductID),
		VariantName:  s.cfg.Provider.VariantNames[reconciled.VariantID],
	}, nil
}

// ActiveSubscription implements domain.Service.
func (s *Service) ActiveSubscription(ctx context.Context) (subscriptiondomain.Subscription, error) {
	return s.activeSubscription(ctx)
}

func (s *Service) activeSubscription(ctx context.Context) (subscriptiondomain.Subscription, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidOrganization
	}

	sub, err := s.repo.FindActiveByOrgID(ctx, s.db, orgID)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if sub == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	return *sub, nil
}

func (s *Service) productName(productID int64) string {
	if name, ok := s.cfg.Provider.ProductNames[productID]; ok {
		return name
	}
	switch productID {
	case s.cfg.Provider.MonthlyProductID:
		return "Monthly"
	case s.cfg.Provider.YearlyProductID:
		return "Yearly"
	default:
		return ""
	}
}

func (s *Service) recordDivergence(orgID, subscriptionID string, err error) {
	if s.metrics != nil {
		s.metrics.RecordDivergence()
	}
	s.log.Error("provider confirmed seat change but local write failed; state divergent until reconciled",
		zap.String("org_id", orgID),
		zap.String("subscription_id", subscriptionID),
		zap.Error(err),
	)
}
