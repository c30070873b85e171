package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/internal/customer/domain"
	"github.com/revendalabs/revenda/pkg/db/option"
	"github.com/revendalabs/revenda/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const customerColumns = `id, cnpj, corporate_name, trade_name, email, phone, segment,
	street, number, district, city, state, zip_code,
	active, blocked, block_type, block_reason, block_message, blocked_at, unblock_at,
	metadata, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (
			id, cnpj, corporate_name, trade_name, email, phone, segment,
			street, number, district, city, state, zip_code,
			active, blocked, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.CNPJ,
		customer.CorporateName,
		customer.TradeName,
		customer.Email,
		customer.Phone,
		customer.Segment,
		customer.Street,
		customer.Number,
		customer.District,
		customer.City,
		customer.State,
		customer.ZipCode,
		customer.Active,
		customer.Blocked,
		customer.Metadata,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET
			corporate_name = ?, trade_name = ?, email = ?, phone = ?, segment = ?,
			street = ?, number = ?, district = ?, city = ?, state = ?, zip_code = ?,
			updated_at = ?
		 WHERE id = ?`,
		customer.CorporateName,
		customer.TradeName,
		customer.Email,
		customer.Phone,
		customer.Segment,
		customer.Street,
		customer.Number,
		customer.District,
		customer.City,
		customer.State,
		customer.ZipCode,
		customer.UpdatedAt,
		customer.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByCNPJ(ctx context.Context, db *gorm.DB, cnpj string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT `+customerColumns+` FROM customers WHERE cnpj = ?`,
		cnpj,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where(
			"corporate_name LIKE ? OR trade_name LIKE ? OR cnpj LIKE ?",
			like, like, like,
		)
	}
	if filter.Segment != "" {
		stmt = stmt.Where("segment = ?", filter.Segment)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if filter.Blocked != nil {
		stmt = stmt.Where("blocked = ?", *filter.Blocked)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) SetBlock(ctx context.Context, db *gorm.DB, id snowflake.ID, details domain.BlockDetails) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET
			blocked = ?, block_type = ?, block_reason = ?, block_message = ?,
			blocked_at = ?, unblock_at = ?, updated_at = ?
		 WHERE id = ?`,
		details.Blocked,
		details.Type,
		details.Reason,
		details.Message,
		details.BlockedAt,
		details.UnblockAt,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET active = ?, updated_at = ? WHERE id = ?`,
		active,
		time.Now().UTC(),
		id,
	).Error
}
