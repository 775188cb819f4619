package banners

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/pagination"
)

type Repository interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Banner], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	Create(ctx context.Context, b *models.Banner) error
	Save(ctx context.Context, b *models.Banner) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Banner], error) {
	return repo.Paginate[models.Banner](ctx, r.DB(ctx), params, repo.ListQuery{
		Order: "position ASC, created_at DESC",
		Scopes: []repo.Scope{
			repo.Eq("warehouse_id", filter.WarehouseID),
			repo.Eq("is_active", filter.IsActive),
			liveAt(filter.LiveAt),
		},
	})
}

func liveAt(at *time.Time) repo.Scope {
	if at == nil {
		return nil
	}
	t := *at
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).
			Where("(starts_at IS NULL OR starts_at <= ?)", t).
			Where("(ends_at IS NULL OR ends_at > ?)", t)
	}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	return repo.FindByID[models.Banner](ctx, r.Base, id)
}

func (r *repository) Create(ctx context.Context, b *models.Banner) error {
	return repo.Insert(ctx, r.Base, b)
}

func (r *repository) Save(ctx context.Context, b *models.Banner) error {
	return r.DB(ctx).Save(b).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.Banner](ctx, r.Base, id)
}

// DeactivateExpired switches off active banners whose window closed before now.
func (r *repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB(ctx).Model(&models.Banner{}).
		Where("is_active = ? AND ends_at IS NOT NULL AND ends_at <= ?", true, now).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return res.RowsAffected, res.Error
}
