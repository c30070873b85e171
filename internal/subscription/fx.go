package subscription

import (
	"github.com/revendalabs/revenda/internal/subscription/repository"
	"github.com/revendalabs/revenda/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
