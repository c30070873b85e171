package payment

import (
	"context"

	"github.com/revendalabs/revenda/internal/payment/gateway"
	"github.com/revendalabs/revenda/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(gateway.New),
	fx.Provide(service.NewService),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, svc *service.Service) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			svc.Shutdown(ctx)
			return nil
		},
	})
}
