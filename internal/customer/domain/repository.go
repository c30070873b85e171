package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	FindByCNPJ(ctx context.Context, db *gorm.DB, cnpj string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	SetBlock(ctx context.Context, db *gorm.DB, id snowflake.ID, details BlockDetails) error
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error
}
