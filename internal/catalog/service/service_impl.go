package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo catalogdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListPlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	return s.repo.ListPlans(ctx, s.db)
}

func (s *Service) GetPlan(ctx context.Context, id string) (*catalogdomain.Plan, error) {
	planID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.FindPlan(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, catalogdomain.ErrPlanNotFound
	}
	return plan, nil
}

func (s *Service) ListModules(ctx context.Context) ([]catalogdomain.Module, error) {
	modules, err := s.repo.ListModules(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := s.attachTiers(ctx, modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (s *Service) GetModule(ctx context.Context, id string) (*catalogdomain.Module, error) {
	moduleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	module, err := s.repo.FindModule(ctx, s.db, moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, catalogdomain.ErrModuleNotFound
	}
	modules := []catalogdomain.Module{*module}
	if err := s.attachTiers(ctx, modules); err != nil {
		return nil, err
	}
	return &modules[0], nil
}

func (s *Service) attachTiers(ctx context.Context, modules []catalogdomain.Module) error {
	if len(modules) == 0 {
		return nil
	}
	ids := make([]snowflake.ID, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	tiers, err := s.repo.ListTiers(ctx, s.db, ids)
	if err != nil {
		return err
	}
	byModule := make(map[snowflake.ID][]catalogdomain.PriceTier, len(modules))
	for _, t := range tiers {
		byModule[t.ModuleID] = append(byModule[t.ModuleID], t)
	}
	for i := range modules {
		modules[i].Tiers = byModule[modules[i].ID]
	}
	return nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, catalogdomain.ErrInvalidID
	}
	return id, nil
}
