package membership

import (
	"github.com/breezehr/breeze/internal/membership/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("membership",
	fx.Provide(repository.Provide),
)
