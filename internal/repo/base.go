package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// Base provides a shared foundation for tenant-owned domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tenant returns a query restricted to rows of the organization.
func (b Base) Tenant(ctx context.Context, organizationID uuid.UUID) *gorm.DB {
	return b.DB(ctx).Where("organization_id = ?", organizationID)
}

// Page applies newest-first keyset pagination on (created_at, id) and fetches
// one extra row so callers can detect the next page with pagination.Trim.
func Page(q *gorm.DB, table string, params pagination.Params) (*gorm.DB, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	col := func(name string) string {
		if table == "" {
			return name
		}
		return table + "." + name
	}
	if cursor != nil {
		q = q.Where(
			col("created_at")+" < ? OR ("+col("created_at")+" = ? AND "+col("id")+" < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	return q.Order(col("created_at") + " DESC").
		Order(col("id") + " DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)), nil
}

// Search adds a case-insensitive substring match over the given columns.
func Search(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, "LOWER(COALESCE("+column+", '')) LIKE ?")
		args = append(args, pattern)
	}
	return q.Where(strings.Join(clauses, " OR "), args...)
}

// ForUpdate row-locks the selected rows of table until the transaction ends.
// SQLite has no row locks and serializes writers already, so it is skipped there.
func ForUpdate(q *gorm.DB, table string) *gorm.DB {
	if q.Dialector != nil && q.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: table}})
}
