package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/breezehr/breeze/internal/clock"
	"github.com/breezehr/breeze/internal/config"
	membershiprepo "github.com/breezehr/breeze/internal/membership/repository"
	orgdomain "github.com/breezehr/breeze/internal/organization/domain"
	orgrepo "github.com/breezehr/breeze/internal/organization/repository"
	"github.com/breezehr/breeze/internal/orgcontext"
	seatdomain "github.com/breezehr/breeze/internal/seat/domain"
	subscriptiondomain "github.com/breezehr/breeze/internal/subscription/domain"
	subscriptionrepo "github.com/breezehr/breeze/internal/subscription/repository"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orgdomain.Organization{}, &subscriptiondomain.Subscription{}))

	// The membership tables are owned by another system; only their counted
	// columns matter here.
	require.NoError(t, db.Exec(`CREATE TABLE organization_members (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		removal_effective_at DATETIME
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE organization_invitations (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		status TEXT NOT NULL
	)`).Error)
	return db
}

func newTestService(db *gorm.DB) seatdomain.Service {
	cfg := config.Config{}
	cfg.Billing.FreeTierSeats = 3

	return NewService(ServiceParam{
		DB:             db,
		Log:            zap.NewNop(),
		Clock:          clock.Fixed(testNow),
		Config:         cfg,
		OrgRepo:        orgrepo.Provide(),
		MembershipRepo: membershiprepo.Provide(),
		SubRepo:        subscriptionrepo.Provide(),
	})
}

func seedOrg(t *testing.T, db *gorm.DB) orgdomain.Organization {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	org := orgdomain.Organization{
		ID:        node.Generate(),
		Name:      "acme",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, db.Create(&org).Error)
	return org
}

func addMember(t *testing.T, db *gorm.DB, orgID snowflake.ID, pendingRemoval bool) {
	t.Helper()
	var removal *time.Time
	if pendingRemoval {
		at := testNow.AddDate(0, 0, 14)
		removal = &at
	}
	addMemberRemovalAt(t, db, orgID, removal)
}

func addMemberRemovalAt(t *testing.T, db *gorm.DB, orgID snowflake.ID, removal *time.Time) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO organization_members (org_id, status, removal_effective_at) VALUES (?, 'active', ?)`,
		orgID, removal,
	).Error)
}

func addInvitation(t *testing.T, db *gorm.DB, orgID snowflake.ID) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO organization_invitations (org_id, status) VALUES (?, 'pending')`,
		orgID,
	).Error)
}

func TestSnapshotFreeTierOrganization(t *testing.T) {
	db := openTestDB(t)
	org := seedOrg(t, db)
	addMember(t, db, org.ID, false)
	addMember(t, db, org.ID, false)

	svc := newTestService(db)
	ctx := orgcontext.WithOrg(context.Background(), org.ID, false)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, seatdomain.PlanFree, snap.Plan)
	assert.Equal(t, 3, snap.MaxSeats)
	assert.Equal(t, 2, snap.CurrentSeats)
	assert.Equal(t, 1, snap.AvailableSeats)
}

func TestSnapshotCountsInvitationsAndRemovals(t *testing.T) {
	db := openTestDB(t)
	org := seedOrg(t, db)
	addMember(t, db, org.ID, false)
	addMember(t, db, org.ID, true)
	addInvitation(t, db, org.ID)

	svc := newTestService(db)
	ctx := orgcontext.WithOrg(context.Background(), org.ID, false)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	// The member scheduled for removal still occupies a seat.
	assert.Equal(t, 3, snap.CurrentSeats)
	assert.Equal(t, 1, snap.PendingInvitations)
	assert.Equal(t, 1, snap.PendingRemovals)
}

func TestSnapshotPastRemovalDateNoLongerPending(t *testing.T) {
	db := openTestDB(t)
	org := seedOrg(t, db)
	past := testNow.AddDate(0, -1, 0)
	addMemberRemovalAt(t, db, org.ID, &past)

	svc := newTestService(db)
	ctx := orgcontext.WithOrg(context.Background(), org.ID, false)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	// A removal whose effective date passed is not pending anymore; the
	// member still occupies a seat until the membership system deactivates
	// the row.
	assert.Equal(t, 0, snap.PendingRemovals)
	assert.Equal(t, 1, snap.CurrentSeats)
}

func TestSnapshotWithActiveSubscription(t *testing.T) {
	db := openTestDB(t)
	org := seedOrg(t, db)
	for i := 0; i < 4; i++ {
		addMember(t, db, org.ID, false)
	}

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	sub := subscriptiondomain.Subscription{
		ID:           node.Generate(),
		OrgID:        org.ID,
		BillingType:  subscriptiondomain.BillingTypeQuantityBased,
		Status:       subscriptiondomain.StatusActive,
		Quantity:     5,
		CurrentSeats: 5,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	require.NoError(t, db.Create(&sub).Error)

	svc := newTestService(db)
	ctx := orgcontext.WithOrg(context.Background(), org.ID, false)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	// Demand reached the graduated threshold, so the paid quantity is the
	// whole ceiling.
	assert.Equal(t, "quantity_based", snap.Plan)
	assert.Equal(t, 5, snap.PaidSeats)
	assert.Equal(t, 5, snap.MaxSeats)
	assert.Equal(t, 1, snap.AvailableSeats)
}

func TestSnapshotHonorsUnexpiredOverride(t *testing.T) {
	db := openTestDB(t)
	org := seedOrg(t, db)
	override := 20
	expires := testNow.Add(24 * time.Hour)
	require.NoError(t, db.Model(&orgdomain.Organization{}).
		Where("id = ?", org.ID).
		Updates(map[string]any{
			"billing_override_seats":      override,
			"billing_override_expires_at": expires,
		}).Error)
	addMember(t, db, org.ID, false)

	svc := newTestService(db)
	ctx := orgcontext.WithOrg(context.Background(), org.ID, false)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 20, snap.MaxSeats)
	assert.Equal(t, 19, snap.AvailableSeats)
}

func TestSnapshotUnknownOrganization(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)
	ctx := orgcontext.WithOrg(context.Background(), snowflake.ID(987654), false)

	_, err := svc.Snapshot(ctx)
	assert.ErrorIs(t, err, orgdomain.ErrOrganizationNotFound)
}

func TestSnapshotMissingOrgContext(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidOrganization)
}
