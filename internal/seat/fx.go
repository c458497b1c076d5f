package seat

import (
	"github.com/breezehr/breeze/internal/seat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("seat",
	fx.Provide(service.NewService),
)
