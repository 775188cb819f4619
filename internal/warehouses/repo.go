package warehouses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Repository persists warehouses.
type Repository interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Warehouse], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	Create(ctx context.Context, w *models.Warehouse) error
	Save(ctx context.Context, w *models.Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository binds a warehouse repository to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Warehouse], error) {
	return repo.Paginate[models.Warehouse](ctx, r.DB(ctx), params, repo.ListQuery{
		Order: "name ASC, id ASC",
		Scopes: []repo.Scope{
			repo.Search(filter.Search, "name", "address"),
			repo.Eq("is_active", filter.IsActive),
		},
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	return repo.FindByID[models.Warehouse](ctx, r.Base, id)
}

func (r *repository) Create(ctx context.Context, w *models.Warehouse) error {
	return repo.Insert(ctx, r.Base, w)
}

func (r *repository) Save(ctx context.Context, w *models.Warehouse) error {
	return r.DB(ctx).Save(w).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.Warehouse](ctx, r.Base, id)
}
