package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows a charge listing. Zero values mean no filter.
type ListFilter struct {
	CustomerID snowflake.ID
	Status     Status
	DueBefore  time.Time
	DueAfter   time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *Charge) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Charge, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Charge, error)
	MarkPaid(ctx context.Context, db *gorm.DB, ids []snowflake.ID, paidAt time.Time) (int64, error)
}
