package billing

import (
	"github.com/revendalabs/revenda/internal/billing/domain"
	"github.com/revendalabs/revenda/internal/billing/repository"
	"github.com/revendalabs/revenda/internal/billing/service"
	paymentdomain "github.com/revendalabs/revenda/internal/payment/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("billing",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(s domain.Service) paymentdomain.Ledger { return s }),
)
