package service

import (
	"context"
	"fmt"

	"github.com/breezehr/breeze/internal/clock"
	"github.com/breezehr/breeze/internal/config"
	planchangedomain "github.com/breezehr/breeze/internal/planchange/domain"
	providerdomain "github.com/breezehr/breeze/internal/provider/domain"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
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

	Subscriptions subscriptiondomain.Service
	Repo          subscriptiondomain.Repository
	Provider      providerdomain.Client
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cfg   config.Config

	subscriptions subscriptiondomain.Service
	repo          subscriptiondomain.Repository
	provider      providerdomain.Client
}

func NewService(p ServiceParam) planchangedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("planchange.service"),
		clock: p.Clock,
		cfg:   p.Config,

		subscriptions: p.Subscriptions,
		repo:          p.Repo,
		provider:      p.Provider,
	}
}

type family int

const (
	familyUnknown family = iota
	familyMonthly
	familyYearly
)

// ChangePeriod implements domain.Service. The transition table is keyed on
// product family, not variant id: multiple variants (regional pricing) can
// belong to one product.
func (s *Service) ChangePeriod(ctx context.Context, newVariantID int64) (planchangedomain.ChangeResult, error) {
	sub, err := s.subscriptions.ActiveSubscription(ctx)
	if err != nil {
		return planchangedomain.ChangeResult{}, err
	}

	if newVariantID <= 0 {
		return planchangedomain.ChangeResult{}, planchangedomain.ErrInvalidVariant
	}
	if newVariantID == sub.VariantID {
		return planchangedomain.ChangeResult{}, planchangedomain.ErrVariantUnchanged
	}

	requestedProduct, ok := s.cfg.Provider.VariantProducts[newVariantID]
	if !ok {
		return planchangedomain.ChangeResult{}, planchangedomain.ErrInvalidVariant
	}
	requested := s.familyOf(requestedProduct, "")
	if requested == familyUnknown {
		return planchangedomain.ChangeResult{}, planchangedomain.ErrInvalidVariant
	}
	current := s.familyOf(sub.ProductID, sub.BillingType)

	switch {
	case current == familyYearly && requested == familyMonthly:
		// Mid-term downgrades would need manual refund handling; make the
		// caller wait out the prepaid term.
		return planchangedomain.ChangeResult{}, &planchangedomain.TransitionBlockedError{
			Reason:   "yearly_term_active",
			RenewsAt: sub.RenewsAt,
		}

	case current == familyMonthly && requested == familyYearly:
		// The yearly product has different checkout semantics (prepaid,
		// quantity-based); it cannot be swapped in place. No provider call.
		return planchangedomain.ChangeResult{
			Outcome:     planchangedomain.OutcomeRedirect,
			VariantID:   newVariantID,
			VariantName: s.cfg.Provider.VariantNames[newVariantID],
			CheckoutURL: s.checkoutURL(newVariantID),
			Message:     "Switching to yearly billing requires a new checkout.",
		}, nil

	default:
		return s.changeVariantInPlace(ctx, sub, requestedProduct, newVariantID)
	}
}

// changeVariantInPlace performs a same-family variant switch. Provider first;
// quantity is preserved by the provider across variant changes within a
// product, so only product/variant identity is written locally.
func (s *Service) changeVariantInPlace(ctx context.Context, sub subscriptiondomain.Subscription, productID, variantID int64) (planchangedomain.ChangeResult, error) {
	_, err := s.provider.UpdateVariant(ctx, providerdomain.UpdateVariantRequest{
		SubscriptionID: sub.ProviderSubscriptionID,
		VariantID:      variantID,
	})
	if err != nil {
		return planchangedomain.ChangeResult{}, err
	}

	now := s.clock.Now(ctx)
	if err := s.repo.UpdateVariant(ctx, s.db, sub.OrgID, sub.ID, productID, variantID, sub.BillingType, now); err != nil {
		// Provider already switched; the next reconciled read heals the row.
		s.log.Error("provider switched variant but local write failed",
			zap.String("org_id", sub.OrgID.String()),
			zap.String("subscription_id", sub.ID.String()),
			zap.Int64("variant_id", variantID),
			zap.Error(err),
		)
		return planchangedomain.ChangeResult{}, err
	}

	return planchangedomain.ChangeResult{
		Outcome:     planchangedomain.OutcomeChanged,
		VariantID:   variantID,
		VariantName: s.cfg.Provider.VariantNames[variantID],
		Message:     "Plan variant updated.",
	}, nil
}

func (s *Service) familyOf(productID int64, billingType subscriptiondomain.BillingType) family {
	switch productID {
	case s.cfg.Provider.MonthlyProductID:
		return familyMonthly
	case s.cfg.Provider.YearlyProductID:
		return familyYearly
	}
	// Rows written before the catalog mapping existed carry only the billing
	// type; it determines the family unambiguously.
	switch billingType {
	case subscriptiondomain.BillingTypeUsageBased:
		return familyMonthly
	case subscriptiondomain.BillingTypeQuantityBased:
		return familyYearly
	default:
		return familyUnknown
	}
}

func (s *Service) checkoutURL(variantID int64) string {
	return fmt.Sprintf("%s?variant=%d", s.cfg.Provider.CheckoutBaseURL, variantID)
}
