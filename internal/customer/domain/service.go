package domain

import (
	"context"
	"errors"
	"time"

	"github.com/revendalabs/revenda/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	CNPJ          string `json:"cnpj"`
	CorporateName string `json:"corporate_name"`
	TradeName     string `json:"trade_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Segment       string `json:"segment"`
	Street        string `json:"street"`
	Number        string `json:"number"`
	District      string `json:"district"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
}

// UpdateCustomerRequest carries only the mutable profile fields. Nil means
// leave the field as it is.
type UpdateCustomerRequest struct {
	ID            string  `json:"-"`
	CorporateName *string `json:"corporate_name"`
	TradeName     *string `json:"trade_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Segment       *string `json:"segment"`
	Street        *string `json:"street"`
	Number        *string `json:"number"`
	District      *string `json:"district"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	ZipCode       *string `json:"zip_code"`
}

type ListCustomerRequest struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
	Segment   string `form:"segment"`
	Active    *bool  `form:"active"`
	Blocked   *bool  `form:"blocked"`
}

type ListCustomerFilter struct {
	Search  string
	Segment string
	Active  *bool
	Blocked *bool
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type BlockCustomerRequest struct {
	ID        string `json:"-"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	UnblockAt string `json:"unblock_at"` // YYYY-MM-DD, optional
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
	Get(ctx context.Context, id string) (Customer, error)
	Block(ctx context.Context, req BlockCustomerRequest) (Customer, error)
	Unblock(ctx context.Context, id string) (Customer, error)
	// SetActive churns or reactivates a customer without touching the
	// block state.
	SetActive(ctx context.Context, id string, active bool) (Customer, error)
}

// BlockDetails is what the repository persists when a block is applied or
// lifted.
type BlockDetails struct {
	Blocked   bool
	Type      BlockType
	Reason    string
	Message   string
	BlockedAt *time.Time
	UnblockAt *time.Time
}

var (
	ErrInvalidCNPJ       = errors.New("invalid_cnpj")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidBlockType  = errors.New("invalid_block_type")
	ErrInvalidUnblockAt  = errors.New("invalid_unblock_date")
	ErrCustomerExists    = errors.New("customer_exists")
	ErrCustomerNotFound  = errors.New("customer_not_found")
	ErrCustomerBlocked   = errors.New("customer_already_blocked")
	ErrCustomerUnblocked = errors.New("customer_not_blocked")
)
