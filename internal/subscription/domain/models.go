package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// CancelReason is the fixed churn-survey catalog. Exhaustive labels keep
// the dashboard dropdown and the stored value in step.
type CancelReason string

const (
	CancelReasonPrice     CancelReason = "price"
	CancelReasonFeatures  CancelReason = "missing_features"
	CancelReasonSwitching CancelReason = "switching_provider"
	CancelReasonClosing   CancelReason = "closing_business"
	CancelReasonOther     CancelReason = "other"
)

func ParseCancelReason(raw string) (CancelReason, error) {
	switch CancelReason(raw) {
	case CancelReasonPrice, CancelReasonFeatures, CancelReasonSwitching,
		CancelReasonClosing, CancelReasonOther:
		return CancelReason(raw), nil
	}
	return "", ErrInvalidCancelReason
}

func (r CancelReason) Label() string {
	switch r {
	case CancelReasonPrice:
		return "Preço"
	case CancelReasonFeatures:
		return "Falta de funcionalidades"
	case CancelReasonSwitching:
		return "Troca de fornecedor"
	case CancelReasonClosing:
		return "Encerramento da empresa"
	case CancelReasonOther:
		return "Outro motivo"
	}
	return "Desconhecido"
}

// CancelReasons returns the catalog in dropdown order.
func CancelReasons() []CancelReason {
	return []CancelReason{
		CancelReasonPrice,
		CancelReasonFeatures,
		CancelReasonSwitching,
		CancelReasonClosing,
		CancelReasonOther,
	}
}

// Item is one module pick inside a subscription. Cleared records an
// explicit zero quantity, which prices as zero units rather than the
// one-unit default.
type Item struct {
	ModuleID int64 `json:"module_id"`
	Quantity int   `json:"quantity"`
	Cleared  bool  `json:"cleared,omitempty"`
}

// Subscription is a customer's plan plus module picks with the persisted
// total the pricing calculator last produced.
type Subscription struct {
	ID           snowflake.ID   `json:"id" gorm:"primaryKey"`
	CustomerID   snowflake.ID   `json:"customer_id" gorm:"column:customer_id;not null;uniqueIndex"`
	PlanID       snowflake.ID   `json:"plan_id" gorm:"column:plan_id;not null"`
	Items        datatypes.JSON `json:"items" gorm:"type:jsonb"`
	Total        float64        `json:"total" gorm:"type:numeric;not null"`
	Status       Status         `json:"status" gorm:"type:text;not null"`
	CancelReason CancelReason   `json:"cancel_reason,omitempty" gorm:"column:cancel_reason;type:text"`
	CancelledAt  *time.Time     `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "subscriptions" }
