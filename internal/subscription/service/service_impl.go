package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/pricing"
	"github.com/revendalabs/revenda/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog catalogdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("subscription.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Subscription, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Subscription{}, domain.ErrInvalidCustomer
	}

	existing, err := s.repo.FindByCustomer(ctx, s.db, customerID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if existing != nil {
		return domain.Subscription{}, domain.ErrSubscriptionExists
	}

	planID, items, result, err := s.price(ctx, req.PlanID, req.Items)
	if err != nil {
		return domain.Subscription{}, err
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return domain.Subscription{}, err
	}

	now := s.clock.Now()
	sub := domain.Subscription{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		PlanID:     planID,
		Items:      datatypes.JSON(itemsJSON),
		Total:      result.SubscriptionTotal,
		Status:     domain.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, &sub); err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription created",
		zap.String("customer_id", req.CustomerID),
		zap.Float64("total", sub.Total))
	return sub, nil
}

func (s *Service) GetByCustomer(ctx context.Context, customerID string) (domain.Subscription, error) {
	sub, err := s.findByCustomer(ctx, customerID)
	if err != nil {
		return domain.Subscription{}, err
	}
	return *sub, nil
}

func (s *Service) Preview(ctx context.Context, req domain.UpdateRequest) (domain.Quote, error) {
	plan, err := s.catalog.GetPlan(ctx, req.PlanID)
	if err != nil {
		return domain.Quote{}, domain.ErrInvalidPlan
	}
	_, _, result, err := s.price(ctx, req.PlanID, req.Items)
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{PlanPrice: plan.Price, Result: result}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Subscription, error) {
	sub, err := s.findByCustomer(ctx, req.CustomerID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub.Status != domain.StatusActive {
		return domain.Subscription{}, domain.ErrSubscriptionInactive
	}

	planID, items, result, err := s.price(ctx, req.PlanID, req.Items)
	if err != nil {
		return domain.Subscription{}, err
	}
	if !result.Valid {
		return domain.Subscription{}, domain.ErrInvalidSelection
	}

	// A submission that prices to the persisted total changes nothing and
	// is rejected so the backend never reprocesses an identical contract.
	if result.MatchesPersistedTotal(sub.Total) && planID == sub.PlanID {
		return domain.Subscription{}, domain.ErrNothingToUpdate
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return domain.Subscription{}, err
	}

	sub.PlanID = planID
	sub.Items = datatypes.JSON(itemsJSON)
	sub.Total = result.SubscriptionTotal
	sub.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription updated",
		zap.String("customer_id", req.CustomerID),
		zap.Float64("total", sub.Total))
	return *sub, nil
}

func (s *Service) Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest) (domain.Subscription, error) {
	sub, err := s.findByCustomer(ctx, req.CustomerID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub.Status != domain.StatusActive {
		return domain.Subscription{}, domain.ErrSubscriptionInactive
	}

	reason, err := domain.ParseCancelReason(strings.TrimSpace(req.Reason))
	if err != nil {
		return domain.Subscription{}, err
	}

	now := s.clock.Now()
	sub.Status = domain.StatusCancelled
	sub.CancelReason = reason
	sub.CancelledAt = &now
	sub.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription cancelled",
		zap.String("customer_id", req.CustomerID),
		zap.String("reason", string(reason)))
	return *sub, nil
}

// price resolves the plan and catalog, maps the submitted items onto
// pricing selections and computes the quote.
func (s *Service) price(ctx context.Context, rawPlanID string, reqItems []domain.ItemRequest) (snowflake.ID, []domain.Item, pricing.Result, error) {
	planID, err := parseID(rawPlanID)
	if err != nil {
		return 0, nil, pricing.Result{}, domain.ErrInvalidPlan
	}
	plan, err := s.catalog.GetPlan(ctx, rawPlanID)
	if err != nil {
		return 0, nil, pricing.Result{}, domain.ErrInvalidPlan
	}
	modules, err := s.catalog.ListModules(ctx)
	if err != nil {
		return 0, nil, pricing.Result{}, err
	}

	catalog := make([]pricing.Module, 0, len(modules))
	for _, m := range modules {
		catalog = append(catalog, m.ToPricing())
	}

	items := make([]domain.Item, 0, len(reqItems))
	selections := make([]pricing.Selection, 0, len(reqItems))
	for _, item := range reqItems {
		moduleID, err := parseID(item.ModuleID)
		if err != nil {
			return 0, nil, pricing.Result{}, domain.ErrInvalidSelection
		}
		sel := pricing.Selection{ModuleID: moduleID.Int64()}
		if item.Quantity != nil {
			if *item.Quantity < 0 {
				return 0, nil, pricing.Result{}, domain.ErrInvalidSelection
			}
			sel.Quantity = *item.Quantity
			sel.Cleared = *item.Quantity == 0
		}
		selections = append(selections, sel)
		items = append(items, domain.Item{
			ModuleID: sel.ModuleID,
			Quantity: sel.Quantity,
			Cleared:  sel.Cleared,
		})
	}

	result := pricing.Compute(plan.ToPricing(), catalog, selections)
	return planID, items, result, nil
}

func (s *Service) findByCustomer(ctx context.Context, customerID string) (*domain.Subscription, error) {
	id, err := parseID(customerID)
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}
	sub, err := s.repo.FindByCustomer(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return sub, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidPlan
	}
	return id, nil
}
