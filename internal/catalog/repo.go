package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Repository persists the catalog tree.
type Repository interface {
	ListCategories(ctx context.Context, params pagination.Params, filter CategoryFilter) (pagination.Page[models.Category], error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	ListSubcategories(ctx context.Context, params pagination.Params, filter SubcategoryFilter) (pagination.Page[models.Subcategory], error)
	FindSubcategory(ctx context.Context, id uuid.UUID) (*models.Subcategory, error)
	CountProductsInSubcategory(ctx context.Context, subcategoryID uuid.UUID) (int64, error)

	ListProducts(ctx context.Context, params pagination.Params, filter ProductFilter) (pagination.Page[models.Product], error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error)

	Create(ctx context.Context, value any) error
	Save(ctx context.Context, value any) error
	Delete(ctx context.Context, model any, id uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) ListCategories(ctx context.Context, params pagination.Params, filter CategoryFilter) (pagination.Page[models.Category], error) {
	return repo.Paginate[models.Category](ctx, r.DB(ctx), params, repo.ListQuery{
		Order:    "sort_order ASC, name ASC",
		Preloads: []string{"Subcategories"},
		Scopes: []repo.Scope{
			repo.Search(filter.Search, "name"),
			repo.Eq("is_active", filter.IsActive),
		},
	})
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return repo.FindByID[models.Category](ctx, r.Base, id, "Subcategories")
}

func (r *repository) CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).
		Where("subcategory_id IN (?)", r.DB(ctx).Model(&models.Subcategory{}).Select("id").Where("category_id = ?", categoryID)).
		Count(&count).Error
	return count, err
}

func (r *repository) ListSubcategories(ctx context.Context, params pagination.Params, filter SubcategoryFilter) (pagination.Page[models.Subcategory], error) {
	return repo.Paginate[models.Subcategory](ctx, r.DB(ctx), params, repo.ListQuery{
		Order:    "name ASC, id ASC",
		Preloads: []string{"Category"},
		Scopes: []repo.Scope{
			repo.Eq("category_id", filter.CategoryID),
			repo.Search(filter.Search, "name"),
			repo.Eq("is_active", filter.IsActive),
		},
	})
}

func (r *repository) FindSubcategory(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	return repo.FindByID[models.Subcategory](ctx, r.Base, id, "Category")
}

func (r *repository) CountProductsInSubcategory(ctx context.Context, subcategoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("subcategory_id = ?", subcategoryID).Count(&count).Error
	return count, err
}

func (r *repository) ListProducts(ctx context.Context, params pagination.Params, filter ProductFilter) (pagination.Page[models.Product], error) {
	return repo.Paginate[models.Product](ctx, r.DB(ctx), params, repo.ListQuery{
		Order:    "created_at DESC, id DESC",
		Preloads: []string{"Warehouse", "Subcategory.Category"},
		Scopes: []repo.Scope{
			repo.Eq("warehouse_id", filter.WarehouseID),
			repo.Eq("subcategory_id", filter.SubcategoryID),
			r.inCategory(ctx, filter.CategoryID),
			repo.Eq("is_active", filter.IsActive),
			repo.Search(filter.Search, "name", "sku"),
		},
	})
}

func (r *repository) inCategory(ctx context.Context, categoryID *uuid.UUID) repo.Scope {
	if categoryID == nil {
		return nil
	}
	sub := r.DB(ctx).Model(&models.Subcategory{}).Select("id").Where("category_id = ?", *categoryID)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("subcategory_id IN (?)", sub)
	}
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.DB(ctx).
		Preload("Warehouse").
		Preload("Subcategory.Category").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Warehouse{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts every column of a catalog row, associations excluded.
func (r *repository) Create(ctx context.Context, value any) error {
	return r.DB(ctx).Select("*").Omit(clause.Associations).Create(value).Error
}

func (r *repository) Save(ctx context.Context, value any) error {
	return r.DB(ctx).Omit(clause.Associations).Save(value).Error
}

func (r *repository) Delete(ctx context.Context, model any, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
