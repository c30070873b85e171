package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/subscription/domain"
	"github.com/revendalabs/revenda/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const subscriptionsDDL = `CREATE TABLE IF NOT EXISTS subscriptions (
	id BIGINT PRIMARY KEY,
	customer_id BIGINT NOT NULL UNIQUE,
	plan_id BIGINT NOT NULL,
	items TEXT,
	total NUMERIC NOT NULL,
	status TEXT NOT NULL,
	cancel_reason TEXT,
	cancelled_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// fakeCatalog serves a fixed plan and module set.
type fakeCatalog struct {
	plan    catalogdomain.Plan
	modules []catalogdomain.Module
}

func (c *fakeCatalog) ListPlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	return []catalogdomain.Plan{c.plan}, nil
}

func (c *fakeCatalog) GetPlan(ctx context.Context, id string) (*catalogdomain.Plan, error) {
	if id != c.plan.ID.String() {
		return nil, catalogdomain.ErrPlanNotFound
	}
	plan := c.plan
	return &plan, nil
}

func (c *fakeCatalog) ListModules(ctx context.Context) ([]catalogdomain.Module, error) {
	return c.modules, nil
}

func (c *fakeCatalog) GetModule(ctx context.Context, id string) (*catalogdomain.Module, error) {
	for _, m := range c.modules {
		if m.ID.String() == id {
			module := m
			return &module, nil
		}
	}
	return nil, catalogdomain.ErrModuleNotFound
}

type fixture struct {
	svc      domain.Service
	catalog  *fakeCatalog
	node     *snowflake.Node
	moduleID snowflake.ID
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(subscriptionsDDL).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	moduleID := node.Generate()
	catalog := &fakeCatalog{
		plan: catalogdomain.Plan{ID: node.Generate(), Name: "Essencial", Price: 100.0},
		modules: []catalogdomain.Module{{
			ID:              moduleID,
			Description:     "Balanças",
			FreeQuantity:    2,
			QuantityAllowed: true,
			Tiers: []catalogdomain.PriceTier{
				{InitialQuantity: 1, FinalQuantity: 5, UnitPrice: 10.0},
				{InitialQuantity: 6, FinalQuantity: 20, UnitPrice: 8.0},
			},
		}},
	}

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		Repo:    repository.Provide(),
		Catalog: catalog,
	})
	return fixture{svc: svc, catalog: catalog, node: node, moduleID: moduleID}
}

func intptr(v int) *int { return &v }

func TestCreateComputesTotal(t *testing.T) {
	f := newFixture(t)
	customerID := f.node.Generate().String()

	sub, err := f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(7)},
		},
	})
	assert.NoError(t, err)
	// Plan 100 plus five billable units at the 1..5 tier.
	assert.Equal(t, 150.0, sub.Total)
	assert.Equal(t, domain.StatusActive, sub.Status)

	_, err = f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrSubscriptionExists)
}

func TestUpdateRejectsNoOpSubmission(t *testing.T) {
	f := newFixture(t)
	customerID := f.node.Generate().String()

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(7)},
		},
	})
	assert.NoError(t, err)

	// Identical payload prices to the same rounded total.
	_, err = f.svc.Update(context.Background(), domain.UpdateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(7)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNothingToUpdate)

	// A different quantity goes through.
	updated, err := f.svc.Update(context.Background(), domain.UpdateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(12)},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 180.0, updated.Total)
}

func TestUpdateRejectsOutOfRangeQuantity(t *testing.T) {
	f := newFixture(t)
	customerID := f.node.Generate().String()

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
	})
	assert.NoError(t, err)

	_, err = f.svc.Update(context.Background(), domain.UpdateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(25)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	f := newFixture(t)
	customerID := f.node.Generate().String()

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(-5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	// Nothing was persisted for the customer.
	_, err = f.svc.GetByCustomer(context.Background(), customerID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	customerID := f.node.Generate().String()

	quote, err := f.svc.Preview(context.Background(), domain.UpdateRequest{
		PlanID: f.catalog.plan.ID.String(),
		Items: []domain.ItemRequest{
			{ModuleID: f.moduleID.String(), Quantity: intptr(7)},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 100.0, quote.PlanPrice)
	assert.Equal(t, 150.0, quote.Result.SubscriptionTotal)
	assert.True(t, quote.Result.Valid)

	_, err = f.svc.GetByCustomer(context.Background(), customerID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestUnsubscribeRequiresKnownReason(t *testing.T) {
	f := newFixture(t)
	customerID := f.node.Generate().String()

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
	})
	assert.NoError(t, err)

	_, err = f.svc.Unsubscribe(context.Background(), domain.UnsubscribeRequest{
		CustomerID: customerID,
		Reason:     "tuesday",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCancelReason)

	sub, err := f.svc.Unsubscribe(context.Background(), domain.UnsubscribeRequest{
		CustomerID: customerID,
		Reason:     string(domain.CancelReasonPrice),
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, sub.Status)
	assert.Equal(t, "Preço", sub.CancelReason.Label())
	assert.NotNil(t, sub.CancelledAt)

	_, err = f.svc.Update(context.Background(), domain.UpdateRequest{
		CustomerID: customerID,
		PlanID:     f.catalog.plan.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrSubscriptionInactive)
}
