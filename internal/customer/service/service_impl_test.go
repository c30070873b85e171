package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/customer/domain"
	"github.com/revendalabs/revenda/internal/customer/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const customersDDL = `CREATE TABLE IF NOT EXISTS customers (
	id BIGINT PRIMARY KEY,
	cnpj TEXT NOT NULL UNIQUE,
	corporate_name TEXT NOT NULL,
	trade_name TEXT,
	email TEXT NOT NULL,
	phone TEXT,
	segment TEXT,
	street TEXT,
	number TEXT,
	district TEXT,
	city TEXT,
	state TEXT,
	zip_code TEXT,
	active INTEGER NOT NULL DEFAULT 1,
	blocked INTEGER NOT NULL DEFAULT 0,
	block_type TEXT,
	block_reason TEXT,
	block_message TEXT,
	blocked_at TIMESTAMP,
	unblock_at TIMESTAMP,
	metadata TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(customersDDL).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc, db, fake
}

func createCustomer(t *testing.T, svc domain.Service, cnpj string) domain.Customer {
	t.Helper()
	customer, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		CNPJ:          cnpj,
		CorporateName: "Padaria Central LTDA",
		TradeName:     "Padaria Central",
		Email:         "contato@padariacentral.com.br",
		Phone:         "(11) 99999-0000",
		Segment:       "food",
		City:          "São Paulo",
		State:         "SP",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func TestCreateNormalizesCNPJAndRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)

	customer := createCustomer(t, svc, "11.222.333/0001-81")
	assert.Equal(t, "11222333000181", customer.CNPJ)
	assert.True(t, customer.Active)
	assert.False(t, customer.Blocked)

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		CNPJ:          "11222333000181",
		CorporateName: "Outra Empresa",
		Email:         "outra@empresa.com",
	})
	assert.ErrorIs(t, err, domain.ErrCustomerExists)

	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		CNPJ:          "11.222.333/0001-80",
		CorporateName: "Empresa",
		Email:         "a@b.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCNPJ)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	customer := createCustomer(t, svc, "11.222.333/0001-81")

	newPhone := "(11) 98888-7777"
	updated, err := svc.Update(context.Background(), domain.UpdateCustomerRequest{
		ID:    customer.ID.String(),
		Phone: &newPhone,
	})
	assert.NoError(t, err)
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, customer.CorporateName, updated.CorporateName)
	assert.Equal(t, customer.CNPJ, updated.CNPJ)

	empty := ""
	_, err = svc.Update(context.Background(), domain.UpdateCustomerRequest{
		ID:    customer.ID.String(),
		Email: &empty,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestBlockAndUnblockLifecycle(t *testing.T) {
	svc, _, fake := newTestService(t)
	customer := createCustomer(t, svc, "11.222.333/0001-81")

	blocked, err := svc.Block(context.Background(), domain.BlockCustomerRequest{
		ID:        customer.ID.String(),
		Type:      string(domain.BlockTypeOverdue),
		Reason:    "faturas em atraso",
		Message:   "Regularize suas faturas para liberar o acesso.",
		UnblockAt: "2026-04-01",
	})
	assert.NoError(t, err)
	assert.True(t, blocked.Blocked)
	assert.Equal(t, domain.BlockTypeOverdue, blocked.BlockType)
	assert.Equal(t, fake.Now(), *blocked.BlockedAt)
	assert.NotNil(t, blocked.UnblockAt)

	_, err = svc.Block(context.Background(), domain.BlockCustomerRequest{
		ID:   customer.ID.String(),
		Type: string(domain.BlockTypeManual),
	})
	assert.ErrorIs(t, err, domain.ErrCustomerBlocked)

	unblocked, err := svc.Unblock(context.Background(), customer.ID.String())
	assert.NoError(t, err)
	assert.False(t, unblocked.Blocked)
	assert.Nil(t, unblocked.BlockedAt)

	_, err = svc.Unblock(context.Background(), customer.ID.String())
	assert.ErrorIs(t, err, domain.ErrCustomerUnblocked)
}

func TestBlockRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	customer := createCustomer(t, svc, "11.222.333/0001-81")

	_, err := svc.Block(context.Background(), domain.BlockCustomerRequest{
		ID:   customer.ID.String(),
		Type: "whim",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBlockType)

	_, err = svc.Block(context.Background(), domain.BlockCustomerRequest{
		ID:        customer.ID.String(),
		Type:      string(domain.BlockTypeManual),
		UnblockAt: "2020-01-01", // in the past
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUnblockAt)
}

func TestSetActiveTogglesChurn(t *testing.T) {
	svc, _, _ := newTestService(t)
	customer := createCustomer(t, svc, "11.222.333/0001-81")

	churned, err := svc.SetActive(context.Background(), customer.ID.String(), false)
	assert.NoError(t, err)
	assert.False(t, churned.Active)

	back, err := svc.SetActive(context.Background(), customer.ID.String(), true)
	assert.NoError(t, err)
	assert.True(t, back.Active)
}

func TestListPaginatesWithCursor(t *testing.T) {
	svc, db, _ := newTestService(t)
	node, _ := snowflake.NewNode(2)

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		db.Exec(`INSERT INTO customers (id, cnpj, corporate_name, email, active, blocked, created_at, updated_at)
			 VALUES (?, ?, ?, ?, 1, 0, ?, ?)`,
			node.Generate(),
			fmt.Sprintf("9999999900010%d", i),
			fmt.Sprintf("Empresa %d", i),
			fmt.Sprintf("empresa%d@mail.com", i),
			base.Add(time.Duration(i)*time.Hour),
			base.Add(time.Duration(i)*time.Hour),
		)
	}

	first, err := svc.List(context.Background(), domain.ListCustomerRequest{PageSize: 2})
	assert.NoError(t, err)
	assert.Len(t, first.Customers, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, "Empresa 4", first.Customers[0].CorporateName)

	second, err := svc.List(context.Background(), domain.ListCustomerRequest{
		PageSize:  2,
		PageToken: first.NextPageToken,
	})
	assert.NoError(t, err)
	assert.Len(t, second.Customers, 2)
	assert.Equal(t, "Empresa 2", second.Customers[0].CorporateName)

	third, err := svc.List(context.Background(), domain.ListCustomerRequest{
		PageSize:  2,
		PageToken: second.NextPageToken,
	})
	assert.NoError(t, err)
	assert.Len(t, third.Customers, 1)
	assert.False(t, third.HasMore)
}

func TestListFiltersBlocked(t *testing.T) {
	svc, _, _ := newTestService(t)
	customer := createCustomer(t, svc, "11.222.333/0001-81")

	_, err := svc.Block(context.Background(), domain.BlockCustomerRequest{
		ID:     customer.ID.String(),
		Type:   string(domain.BlockTypeManual),
		Reason: "solicitação interna",
	})
	assert.NoError(t, err)

	blocked := true
	resp, err := svc.List(context.Background(), domain.ListCustomerRequest{Blocked: &blocked})
	assert.NoError(t, err)
	assert.Len(t, resp.Customers, 1)

	notBlocked := false
	resp, err = svc.List(context.Background(), domain.ListCustomerRequest{Blocked: &notBlocked})
	assert.NoError(t, err)
	assert.Empty(t, resp.Customers)
}
