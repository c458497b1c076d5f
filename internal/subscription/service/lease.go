package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

const leaseTTL = 30 * time.Second

// acquireSeatLease serializes seat changes per subscription. Holding the
// lease for the duration of the provider call plus the local write closes the
// window where two concurrent requests price a change off the same stale
// quantity. Fails open when redis is unavailable: the conditional update on
// current_seats is the backstop.
func (s *Service) acquireSeatLease(ctx context.Context, subscriptionID snowflake.ID) (func(), bool, error) {
	if s.redis == nil {
		return func() {}, true, nil
	}

	key := fmt.Sprintf("billing:seat_lease:%s", subscriptionID.String())
	ok, err := s.redis.SetNX(ctx, key, "1", leaseTTL).Result()
	if err != nil {
		s.log.Warn("seat lease unavailable, proceeding without it", zap.Error(err))
		return func() {}, true, nil
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		if err := s.redis.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			s.log.Warn("failed to release seat lease", zap.String("key", key), zap.Error(err))
		}
	}
	return release, true, nil
}
