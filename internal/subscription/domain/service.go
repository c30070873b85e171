package domain

import (
	"context"
	"errors"

	"github.com/revendalabs/revenda/internal/pricing"
)

// ItemRequest is one module pick as submitted. A nil Quantity defaults to
// one unit; an explicit zero clears the module's quantity.
type ItemRequest struct {
	ModuleID string `json:"module_id"`
	Quantity *int   `json:"quantity"`
}

type CreateRequest struct {
	CustomerID string        `json:"customer_id"`
	PlanID     string        `json:"plan_id"`
	Items      []ItemRequest `json:"items"`
}

type UpdateRequest struct {
	CustomerID string        `json:"-"`
	PlanID     string        `json:"plan_id"`
	Items      []ItemRequest `json:"items"`
}

type UnsubscribeRequest struct {
	CustomerID string `json:"-"`
	Reason     string `json:"reason"`
	Comment    string `json:"comment"`
}

// Quote pairs a subscription payload with its computed price breakdown so
// the dashboard can show per-line values before submitting.
type Quote struct {
	PlanPrice float64        `json:"plan_price"`
	Result    pricing.Result `json:"result"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Subscription, error)
	GetByCustomer(ctx context.Context, customerID string) (Subscription, error)
	// Preview prices a payload without persisting anything.
	Preview(ctx context.Context, req UpdateRequest) (Quote, error)
	// Update recomputes the total and persists the new picks. A payload
	// whose rounded total equals the persisted one is rejected as a no-op.
	Update(ctx context.Context, req UpdateRequest) (Subscription, error)
	Unsubscribe(ctx context.Context, req UnsubscribeRequest) (Subscription, error)
}

var (
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrInvalidPlan          = errors.New("invalid_plan")
	ErrInvalidSelection     = errors.New("invalid_selection")
	ErrInvalidCancelReason  = errors.New("invalid_cancel_reason")
	ErrNothingToUpdate      = errors.New("nothing_to_update")
	ErrSubscriptionExists   = errors.New("subscription_exists")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
	ErrSubscriptionInactive = errors.New("subscription_inactive")
)
