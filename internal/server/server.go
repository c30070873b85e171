package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/revendalabs/revenda/internal/billing"
	billingdomain "github.com/revendalabs/revenda/internal/billing/domain"
	"github.com/revendalabs/revenda/internal/catalog"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	"github.com/revendalabs/revenda/internal/config"
	"github.com/revendalabs/revenda/internal/customer"
	customerdomain "github.com/revendalabs/revenda/internal/customer/domain"
	obsmetrics "github.com/revendalabs/revenda/internal/observability/metrics"
	"github.com/revendalabs/revenda/internal/payment"
	paymentservice "github.com/revendalabs/revenda/internal/payment/service"
	"github.com/revendalabs/revenda/internal/reference"
	referencedomain "github.com/revendalabs/revenda/internal/reference/domain"
	"github.com/revendalabs/revenda/internal/subscription"
	subscriptiondomain "github.com/revendalabs/revenda/internal/subscription/domain"
	"github.com/revendalabs/revenda/internal/whitelabel"
	whitelabeldomain "github.com/revendalabs/revenda/internal/whitelabel/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	catalog.Module,
	customer.Module,
	billing.Module,
	subscription.Module,
	whitelabel.Module,
	payment.Module,
	reference.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	customerSvc     customerdomain.Service
	billingSvc      billingdomain.Service
	catalogSvc      catalogdomain.Service
	subscriptionSvc subscriptiondomain.Service
	whitelabelSvc   whitelabeldomain.Service
	paymentSvc      *paymentservice.Service
	refRepo         referencedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	CustomerSvc     customerdomain.Service
	BillingSvc      billingdomain.Service
	CatalogSvc      catalogdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	WhitelabelSvc   whitelabeldomain.Service
	PaymentSvc      *paymentservice.Service
	RefRepo         referencedomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		customerSvc:     p.CustomerSvc,
		billingSvc:      p.BillingSvc,
		catalogSvc:      p.CatalogSvc,
		subscriptionSvc: p.SubscriptionSvc,
		whitelabelSvc:   p.WhitelabelSvc,
		paymentSvc:      p.PaymentSvc,
		refRepo:         p.RefRepo,
	}

	svc.registerCustomerRoutes()
	svc.registerBillingRoutes()
	svc.registerPaymentRoutes()
	svc.registerCatalogRoutes()
	svc.registerSubscriptionRoutes()
	svc.registerWhitelabelRoutes()
	svc.registerReferenceRoutes()

	return svc
}
