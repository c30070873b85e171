package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/revendalabs/revenda/internal/catalog/domain"
	"github.com/revendalabs/revenda/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogDDL = `
CREATE TABLE IF NOT EXISTS plans (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	price NUMERIC NOT NULL,
	machines INTEGER NOT NULL DEFAULT 1,
	color TEXT,
	features TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS modules (
	id BIGINT PRIMARY KEY,
	description TEXT NOT NULL,
	price NUMERIC NOT NULL,
	free_quantity INTEGER NOT NULL DEFAULT 0,
	quantity_allowed INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS module_price_tiers (
	id BIGINT PRIMARY KEY,
	module_id BIGINT NOT NULL,
	initial_quantity INTEGER NOT NULL,
	final_quantity INTEGER NOT NULL,
	unit_price NUMERIC NOT NULL
);`

func newTestService(t *testing.T) (catalogdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(catalogDDL).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{DB: db, Log: zap.NewNop(), Repo: repository.Provide()})
	return svc, db, node
}

func TestListModulesAttachesTiers(t *testing.T) {
	svc, db, node := newTestService(t)
	now := time.Now().UTC()

	tiered := node.Generate()
	flat := node.Generate()
	db.Exec(`INSERT INTO modules (id, description, price, free_quantity, quantity_allowed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, tiered, "Balanças", 0.0, 2, true, now, now)
	db.Exec(`INSERT INTO modules (id, description, price, free_quantity, quantity_allowed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, flat, "Fiscal", 49.9, 0, false, now, now)

	db.Exec(`INSERT INTO module_price_tiers (id, module_id, initial_quantity, final_quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?)`, node.Generate(), tiered, 1, 5, 10.0)
	db.Exec(`INSERT INTO module_price_tiers (id, module_id, initial_quantity, final_quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?)`, node.Generate(), tiered, 6, 20, 8.0)

	modules, err := svc.ListModules(context.Background())
	assert.NoError(t, err)
	assert.Len(t, modules, 2)

	byID := map[snowflake.ID]catalogdomain.Module{}
	for _, m := range modules {
		byID[m.ID] = m
	}
	assert.Len(t, byID[tiered].Tiers, 2)
	assert.Equal(t, 10.0, byID[tiered].Tiers[0].UnitPrice)
	assert.Empty(t, byID[flat].Tiers)
}

func TestGetModuleProjectsIntoPricing(t *testing.T) {
	svc, db, node := newTestService(t)
	now := time.Now().UTC()

	id := node.Generate()
	db.Exec(`INSERT INTO modules (id, description, price, free_quantity, quantity_allowed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, id, "Balanças", 0.0, 2, true, now, now)
	db.Exec(`INSERT INTO module_price_tiers (id, module_id, initial_quantity, final_quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?)`, node.Generate(), id, 1, 5, 10.0)

	module, err := svc.GetModule(context.Background(), id.String())
	assert.NoError(t, err)

	p := module.ToPricing()
	assert.Equal(t, id.Int64(), p.ID)
	assert.Equal(t, 2, p.FreeQuantity)
	assert.True(t, p.QuantityAllowed)
	assert.Len(t, p.Tiers, 1)
	assert.Equal(t, 5, p.Tiers[0].FinalQuantity)
}

func TestGetPlanNotFound(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.GetPlan(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, catalogdomain.ErrPlanNotFound)

	_, err = svc.GetPlan(context.Background(), "garbage")
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidID)
}

func TestListPlansOrderedByPrice(t *testing.T) {
	svc, db, node := newTestService(t)
	now := time.Now().UTC()

	db.Exec(`INSERT INTO plans (id, name, price, machines, color, features, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), "Avançado", 199.9, 5, "#7048e8", `["Tudo do Essencial","Suporte"]`, now, now)
	db.Exec(`INSERT INTO plans (id, name, price, machines, color, features, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), "Essencial", 99.9, 1, "#1c7ed6", `["PDV"]`, now, now)

	plans, err := svc.ListPlans(context.Background())
	assert.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, "Essencial", plans[0].Name)
	assert.Equal(t, "Avançado", plans[1].Name)
}
