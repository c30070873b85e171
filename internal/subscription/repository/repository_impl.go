package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, customer_id, plan_id, items, total, status,
			cancel_reason, cancelled_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.CustomerID,
		sub.PlanID,
		sub.Items,
		sub.Total,
		sub.Status,
		sub.CancelReason,
		sub.CancelledAt,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions SET
			plan_id = ?, items = ?, total = ?, status = ?,
			cancel_reason = ?, cancelled_at = ?, updated_at = ?
		 WHERE id = ?`,
		sub.PlanID,
		sub.Items,
		sub.Total,
		sub.Status,
		sub.CancelReason,
		sub.CancelledAt,
		sub.UpdatedAt,
		sub.ID,
	).Error
}

func (r *repo) FindByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, plan_id, items, total, status,
			cancel_reason, cancelled_at, created_at, updated_at
		 FROM subscriptions WHERE customer_id = ?`,
		customerID,
	).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}
