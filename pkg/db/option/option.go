// Package option carries composable query modifiers for gorm statements.
package option

import (
	"time"

	"github.com/revendalabs/revenda/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// ApplyPagination turns a cursor page request into a keyset condition over
// (created_at, id) descending plus a limit of one extra row, which the
// caller trims into a has-more flag.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = 10
		}

		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil && cursor.ID != "" {
				if createdAt, perr := time.Parse(time.RFC3339, cursor.CreatedAt); perr == nil {
					db = db.Where(
						"(created_at < ?) OR (created_at = ? AND id < ?)",
						createdAt, createdAt, cursor.ID,
					)
				}
			}
		}

		return db.Limit(size + 1)
	})
}
