package planchange

import (
	"github.com/breezehr/breeze/internal/planchange/service"
	"go.uber.org/fx"
)

var Module = fx.Module("planchange",
	fx.Provide(service.NewService),
)
