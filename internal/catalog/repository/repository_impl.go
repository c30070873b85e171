package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB) ([]catalogdomain.Plan, error) {
	var plans []catalogdomain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, price, machines, color, features, created_at, updated_at
		 FROM plans ORDER BY price ASC`,
	).Scan(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) FindPlan(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Plan, error) {
	var plan catalogdomain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, price, machines, color, features, created_at, updated_at
		 FROM plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) ListModules(ctx context.Context, db *gorm.DB) ([]catalogdomain.Module, error) {
	var modules []catalogdomain.Module
	err := db.WithContext(ctx).Raw(
		`SELECT id, description, price, free_quantity, quantity_allowed, created_at, updated_at
		 FROM modules ORDER BY description ASC`,
	).Scan(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *repo) FindModule(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Module, error) {
	var module catalogdomain.Module
	err := db.WithContext(ctx).Raw(
		`SELECT id, description, price, free_quantity, quantity_allowed, created_at, updated_at
		 FROM modules WHERE id = ?`,
		id,
	).Scan(&module).Error
	if err != nil {
		return nil, err
	}
	if module.ID == 0 {
		return nil, nil
	}
	return &module, nil
}

func (r *repo) ListTiers(ctx context.Context, db *gorm.DB, moduleIDs []snowflake.ID) ([]catalogdomain.PriceTier, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var tiers []catalogdomain.PriceTier
	err := db.WithContext(ctx).Raw(
		`SELECT id, module_id, initial_quantity, final_quantity, unit_price
		 FROM module_price_tiers WHERE module_id IN ? ORDER BY module_id, initial_quantity ASC`,
		moduleIDs,
	).Scan(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}
