package service

import (
	"context"

	"github.com/breezehr/breeze/internal/clock"
	"github.com/breezehr/breeze/internal/config"
	membershipdomain "github.com/breezehr/breeze/internal/membership/domain"
	orgdomain "github.com/breezehr/breeze/internal/organization/domain"
	"github.com/breezehr/breeze/internal/orgcontext"
	seatdomain "github.com/breezehr/breeze/internal/seat/domain"
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

	OrgRepo        orgdomain.Repository
	MembershipRepo membershipdomain.Repository
	SubRepo        subscriptiondomain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cfg   config.Config

	orgRepo        orgdomain.Repository
	membershipRepo membershipdomain.Repository
	subRepo        subscriptiondomain.Repository
}

func NewService(p ServiceParam) seatdomain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("seat.service"),
		clock: p.Clock,
		cfg:   p.Config,

		orgRepo:        p.OrgRepo,
		membershipRepo: p.MembershipRepo,
		subRepo:        p.SubRepo,
	}
}

func (s *service) Snapshot(ctx context.Context) (seatdomain.Snapshot, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return seatdomain.Snapshot{}, subscriptiondomain.ErrInvalidOrganization
	}

	org, err := s.orgRepo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return seatdomain.Snapshot{}, err
	}
	if org == nil {
		return seatdomain.Snapshot{}, orgdomain.ErrOrganizationNotFound
	}

	now := s.clock.Now(ctx)
	counts, err := s.membershipRepo.Counts(ctx, s.db, orgID, now)
	if err != nil {
		return seatdomain.Snapshot{}, err
	}

	sub, err := s.subRepo.FindActiveByOrgID(ctx, s.db, orgID)
	if err != nil {
		return seatdomain.Snapshot{}, err
	}

	in := seatdomain.Input{
		FreeTierSeats:      s.cfg.Billing.FreeTierSeats,
		GraduatedThreshold: s.cfg.Billing.GraduatedThreshold,
		ActiveMembers:      counts.ActiveMembers,
		PendingInvitations: counts.PendingInvitations,
		PendingRemovals:    counts.PendingRemovals,
		OverrideSeats:      org.BillingOverrideSeats,
		OverrideExpiresAt:  org.BillingOverrideExpiresAt,
		Now:                now,
	}
	if sub != nil {
		in.PaidSeats = sub.CurrentSeats
		in.Plan = string(sub.BillingType)
	}

	return seatdomain.Compute(in), nil
}
