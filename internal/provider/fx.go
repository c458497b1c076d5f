package provider

import (
	providerdomain "github.com/breezehr/breeze/internal/provider/domain"
	"github.com/breezehr/breeze/internal/provider/lemon"
	"go.uber.org/fx"
)

var Module = fx.Module("provider",
	fx.Provide(
		fx.Annotate(lemon.NewClient, fx.As(new(providerdomain.Client))),
	),
)
