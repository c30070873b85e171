package domain

import (
	"context"
	"errors"
)

type Service interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	// ListModules returns the module catalog with each module's price
	// tiers attached.
	ListModules(ctx context.Context) ([]Module, error)
	GetModule(ctx context.Context, id string) (*Module, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrPlanNotFound   = errors.New("plan_not_found")
	ErrModuleNotFound = errors.New("module_not_found")
)
