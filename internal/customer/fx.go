package customer

import (
	"github.com/revendalabs/revenda/internal/customer/repository"
	"github.com/revendalabs/revenda/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
