package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey string

const (
	orgIDKey contextKey = "org_id"
	adminKey contextKey = "org_admin"
)

// WithOrg stores the authenticated caller's organization identity.
// Authentication itself happens upstream; the billing engine only consumes a
// resolved org id and admin flag.
func WithOrg(ctx context.Context, orgID snowflake.ID, admin bool) context.Context {
	ctx = context.WithValue(ctx, orgIDKey, orgID)
	return context.WithValue(ctx, adminKey, admin)
}

func OrgIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(orgIDKey).(snowflake.ID)
	return id, ok
}

func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminKey).(bool)
	return admin
}
