package domain

import "context"

// Service computes the live seat snapshot for the organization on the
// request context. Always freshly counted; callers must not cache the result
// across requests.
type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
