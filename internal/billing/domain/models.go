package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the lifecycle of one monthly charge in the local ledger.
type Status string

const (
	StatusOpen      Status = "open"
	StatusOverdue   Status = "overdue"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status coming from a query string or payload.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusOpen, StatusOverdue, StatusPaid, StatusCancelled:
		return Status(raw), nil
	}
	return "", ErrInvalidStatus
}

// Label returns the display name shown on the dashboard. Exhaustive so a
// new status without a label fails review, not rendering.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Em aberto"
	case StatusOverdue:
		return "Vencida"
	case StatusPaid:
		return "Paga"
	case StatusCancelled:
		return "Cancelada"
	}
	return "Desconhecida"
}

// Charge is one monthly billing entry for a customer. Penalty, interest and
// the current value are accrued at read time from the due date, never
// stored.
type Charge struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	CustomerID snowflake.ID `json:"customer_id" gorm:"column:customer_id;not null;index"`
	Status     Status       `json:"status" gorm:"type:text;not null"`
	Value      float64      `json:"value" gorm:"type:numeric;not null"`
	DueDate    time.Time    `json:"due_date" gorm:"column:due_date;not null;index"`
	PaidAt     *time.Time   `json:"paid_at,omitempty" gorm:"column:paid_at"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Derived fields, filled by the service on reads.
	DaysOverdue  int     `json:"days_overdue" gorm:"-"`
	Penalty      float64 `json:"penalty" gorm:"-"`
	Interest     float64 `json:"interest" gorm:"-"`
	CurrentValue float64 `json:"current_value" gorm:"-"`
	StatusLabel  string  `json:"status_label" gorm:"-"`
}

func (Charge) TableName() string { return "charges" }
