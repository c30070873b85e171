package catalog

import (
	"github.com/revendalabs/revenda/internal/catalog/repository"
	"github.com/revendalabs/revenda/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
