package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/pagination"
)

// Scope narrows a list query. Scopes are applied identically to the count and
// range queries so totalCount always describes the same rows as data.
type Scope func(*gorm.DB) *gorm.DB

// ListQuery describes everything about a paginated query except the page itself.
type ListQuery struct {
	Order    string
	Preloads []string
	Scopes   []Scope
}

// Paginate issues a count query and, when rows exist at the requested offset, a
// range query. A zero total or a page past the end returns an empty page.
func Paginate[T any](ctx context.Context, db *gorm.DB, params pagination.Params, q ListQuery) (pagination.Page[T], error) {
	params = pagination.Normalize(params)

	var total int64
	if err := q.base(ctx, db, new(T)).Count(&total).Error; err != nil {
		return pagination.Page[T]{}, fmt.Errorf("count: %w", err)
	}
	if total == 0 || pagination.PastEnd(total, params) {
		return pagination.NewPage[T](nil, total, params), nil
	}

	query := q.base(ctx, db, new(T))
	for _, preload := range q.Preloads {
		query = query.Preload(preload)
	}
	if q.Order != "" {
		query = query.Order(q.Order)
	}

	var rows []T
	if err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&rows).Error; err != nil {
		return pagination.Page[T]{}, fmt.Errorf("range: %w", err)
	}
	return pagination.NewPage(rows, total, params), nil
}

func (q ListQuery) base(ctx context.Context, db *gorm.DB, model any) *gorm.DB {
	query := db.WithContext(ctx).Model(model)
	for _, scope := range q.Scopes {
		if scope != nil {
			query = scope(query)
		}
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches term case-insensitively against any of the columns. The term
// is literal: % and _ match themselves. Column names must be trusted
// identifiers.
func Search(term string, columns ...string) Scope {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
		args = append(args, pattern)
	}
	where := "(" + strings.Join(clauses, " OR ") + ")"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(where, args...)
	}
}

// Eq filters column = value when value is non-nil.
func Eq[V any](column string, value *V) Scope {
	if value == nil {
		return nil
	}
	v := *value
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", v)
	}
}

// In filters column IN values. An empty slice matches nothing.
func In[V any](column string, values []V) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if len(values) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", values)
	}
}

// Between filters column to the half-open range [from, to). Either bound may be nil.
func Between(column string, from, to *time.Time) Scope {
	if from == nil && to == nil {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" < ?", *to)
		}
		return db
	}
}

// IsNull filters rows where column is null (want=true) or not null.
func IsNull(column string, want *bool) Scope {
	if want == nil {
		return nil
	}
	if *want {
		return func(db *gorm.DB) *gorm.DB { return db.Where(column + " IS NULL") }
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where(column + " IS NOT NULL") }
}
