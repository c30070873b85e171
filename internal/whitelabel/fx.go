package whitelabel

import (
	"github.com/revendalabs/revenda/internal/whitelabel/repository"
	"github.com/revendalabs/revenda/internal/whitelabel/service"
	"go.uber.org/fx"
)

var Module = fx.Module("whitelabel",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
