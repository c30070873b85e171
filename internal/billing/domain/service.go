package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Generate creates Count monthly charges for a customer, one month
	// apart starting at FirstDueDate.
	Generate(ctx context.Context, req GenerateRequest) ([]Charge, error)
	Get(ctx context.Context, id string) (*Charge, error)
	List(ctx context.Context, req ListRequest) ([]Charge, error)
	// MarkPaid settles the given charges in the local ledger once the
	// payment gateway confirms them.
	MarkPaid(ctx context.Context, chargeIDs []string) error
}

type GenerateRequest struct {
	CustomerID   string  `json:"customer_id"`
	Value        float64 `json:"value"`
	Count        int     `json:"count"`
	FirstDueDate string  `json:"first_due_date"` // YYYY-MM-DD
}

type ListRequest struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	DueBefore  string `form:"due_before"` // YYYY-MM-DD
	DueAfter   string `form:"due_after"`  // YYYY-MM-DD
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidValue    = errors.New("invalid_value")
	ErrInvalidCount    = errors.New("invalid_count")
	ErrInvalidDueDate  = errors.New("invalid_due_date")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrChargeNotFound  = errors.New("charge_not_found")
)
