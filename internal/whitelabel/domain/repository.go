package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB) (*WhiteLabel, error)
	Upsert(ctx context.Context, db *gorm.DB, settings *WhiteLabel) error
}
