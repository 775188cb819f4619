package paymentmethods

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/pagination"
)

type Repository interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.PaymentMethod], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	Create(ctx context.Context, m *models.PaymentMethod) error
	Save(ctx context.Context, m *models.PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.PaymentMethod], error) {
	return repo.Paginate[models.PaymentMethod](ctx, r.DB(ctx), params, repo.ListQuery{
		Order: "type ASC, name ASC, id ASC",
		Scopes: []repo.Scope{
			warehouseScope(filter),
			repo.Eq("type", filter.Type),
			repo.Eq("is_active", filter.IsActive),
		},
	})
}

func warehouseScope(filter ListFilter) repo.Scope {
	if filter.WarehouseID == nil {
		return nil
	}
	id := *filter.WarehouseID
	if filter.IncludeGlobal {
		return func(db *gorm.DB) *gorm.DB { return db.Where("(warehouse_id = ? OR warehouse_id IS NULL)", id) }
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where("warehouse_id = ?", id) }
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	return repo.FindByID[models.PaymentMethod](ctx, r.Base, id)
}

func (r *repository) Create(ctx context.Context, m *models.PaymentMethod) error {
	return repo.Insert(ctx, r.Base, m)
}

func (r *repository) Save(ctx context.Context, m *models.PaymentMethod) error {
	return r.DB(ctx).Save(m).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return repo.DeleteByID[models.PaymentMethod](ctx, r.Base, id)
}
