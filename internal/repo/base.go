package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Base is embedded by the dashboard repositories for the row-by-id helpers
// every screen needs (detail, create, delete).
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns it unbound.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// FindByID loads one T by primary key with the given preloads. A missing row
// returns gorm.ErrRecordNotFound.
func FindByID[T any](ctx context.Context, b Base, id uuid.UUID, preloads ...string) (*T, error) {
	query := b.DB(ctx)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	var row T
	if err := query.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert writes every column of row, zero values included, and skips
// associations.
func Insert[T any](ctx context.Context, b Base, row *T) error {
	return b.DB(ctx).Select("*").Omit(clause.Associations).Create(row).Error
}

// DeleteByID removes one T and reports whether a row existed.
func DeleteByID[T any](ctx context.Context, b Base, id uuid.UUID) (bool, error) {
	res := b.DB(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
