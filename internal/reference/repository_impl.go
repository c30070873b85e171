package reference

import (
	"context"

	"github.com/revendalabs/revenda/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListSegments(ctx context.Context) ([]domain.Segment, error) {
	var segments []domain.Segment
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, description FROM segments ORDER BY description`).
		Scan(&segments).Error
	if err != nil {
		return nil, err
	}
	return segments, nil
}
