package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/revendalabs/revenda/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *billingdomain.Charge) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO charges (
			id, customer_id, status, value, due_date, paid_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		charge.ID,
		charge.CustomerID,
		charge.Status,
		charge.Value,
		charge.DueDate,
		charge.PaidAt,
		charge.CreatedAt,
		charge.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.Charge, error) {
	var charge billingdomain.Charge
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, status, value, due_date, paid_at, created_at, updated_at
		 FROM charges WHERE id = ?`,
		id,
	).Scan(&charge).Error
	if err != nil {
		return nil, err
	}
	if charge.ID == 0 {
		return nil, nil
	}
	return &charge, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter billingdomain.ListFilter) ([]billingdomain.Charge, error) {
	query := `SELECT id, customer_id, status, value, due_date, paid_at, created_at, updated_at
		 FROM charges WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.CustomerID != 0 {
		query += " AND customer_id = ?"
		args = append(args, filter.CustomerID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if !filter.DueBefore.IsZero() {
		query += " AND due_date < ?"
		args = append(args, filter.DueBefore)
	}
	if !filter.DueAfter.IsZero() {
		query += " AND due_date >= ?"
		args = append(args, filter.DueAfter)
	}
	query += " ORDER BY due_date ASC"

	var items []billingdomain.Charge
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, ids []snowflake.ID, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).Exec(
		`UPDATE charges SET status = ?, paid_at = ?, updated_at = ?
		 WHERE id IN ? AND status <> ?`,
		billingdomain.StatusPaid,
		paidAt,
		paidAt,
		ids,
		billingdomain.StatusPaid,
	)
	return result.RowsAffected, result.Error
}
