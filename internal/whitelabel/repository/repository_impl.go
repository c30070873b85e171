package repository

import (
	"context"

	"github.com/revendalabs/revenda/internal/whitelabel/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB) (*domain.WhiteLabel, error) {
	var settings domain.WhiteLabel
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, phone, cell_phone, instagram, logo_url, logo_small_url,
			systems, colors, created_at, updated_at
		 FROM whitelabel_settings ORDER BY id ASC LIMIT 1`,
	).Scan(&settings).Error
	if err != nil {
		return nil, err
	}
	if settings.ID == 0 {
		return nil, nil
	}
	return &settings, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, settings *domain.WhiteLabel) error {
	existing, err := r.Find(ctx, db)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Exec(
			`INSERT INTO whitelabel_settings (
				id, name, phone, cell_phone, instagram, logo_url, logo_small_url,
				systems, colors, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			settings.ID,
			settings.Name,
			settings.Phone,
			settings.CellPhone,
			settings.Instagram,
			settings.LogoURL,
			settings.LogoSmallURL,
			settings.Systems,
			settings.Colors,
			settings.CreatedAt,
			settings.UpdatedAt,
		).Error
	}

	settings.ID = existing.ID
	settings.CreatedAt = existing.CreatedAt
	return db.WithContext(ctx).Exec(
		`UPDATE whitelabel_settings SET
			name = ?, phone = ?, cell_phone = ?, instagram = ?,
			logo_url = ?, logo_small_url = ?, systems = ?, colors = ?, updated_at = ?
		 WHERE id = ?`,
		settings.Name,
		settings.Phone,
		settings.CellPhone,
		settings.Instagram,
		settings.LogoURL,
		settings.LogoSmallURL,
		settings.Systems,
		settings.Colors,
		settings.UpdatedAt,
		settings.ID,
	).Error
}
