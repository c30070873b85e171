package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListPlans(ctx context.Context, db *gorm.DB) ([]Plan, error)
	FindPlan(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	ListModules(ctx context.Context, db *gorm.DB) ([]Module, error)
	FindModule(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Module, error)
	ListTiers(ctx context.Context, db *gorm.DB, moduleIDs []snowflake.ID) ([]PriceTier, error)
}
