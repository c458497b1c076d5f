package redis

import (
	"context"

	"github.com/breezehr/breeze/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

// NewClient connects the shared redis instance used for the per-subscription
// seat-change lease. Seat changes still work without redis (the conditional
// update is the backstop), but the connection is verified up front so a
// misconfigured address surfaces at boot rather than mid-request.
func NewClient(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
