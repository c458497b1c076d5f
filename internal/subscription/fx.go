package subscription

import (
	"github.com/breezehr/breeze/internal/subscription/repository"
	"github.com/breezehr/breeze/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
