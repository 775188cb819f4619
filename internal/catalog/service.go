package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service manages categories, subcategories and products.
type Service interface {
	ListCategories(ctx context.Context, params pagination.Params, filter CategoryFilter) (pagination.Page[CategoryDTO], error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListSubcategories(ctx context.Context, params pagination.Params, filter SubcategoryFilter) (pagination.Page[SubcategoryDTO], error)
	CreateSubcategory(ctx context.Context, input SubcategoryInput) (*SubcategoryDTO, error)
	UpdateSubcategory(ctx context.Context, id uuid.UUID, input SubcategoryInput) (*SubcategoryDTO, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, params pagination.Params, filter ProductFilter) (pagination.Page[ProductDTO], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	SetProductActive(ctx context.Context, id uuid.UUID, active bool) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context, params pagination.Params, filter CategoryFilter) (pagination.Page[CategoryDTO], error) {
	page, err := s.repo.ListCategories(ctx, params, filter)
	if err != nil {
		return pagination.Page[CategoryDTO]{}, pkgerrors.Backend(err, "list categories")
	}
	return pagination.Map(page, CategoryFromModel), nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	c := &models.Category{
		Name:        name,
		Description: optional(input.Description),
		ImageURLs:   imageURLs(input.ImageURLs),
		SortOrder:   input.SortOrder,
		IsActive:    boolOr(input.IsActive, true),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, pkgerrors.Backend(err, "create category")
	}
	dto := CategoryFromModel(*c)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found", "load category")
	}
	c.Name = name
	c.Description = optional(input.Description)
	c.ImageURLs = imageURLs(input.ImageURLs)
	c.SortOrder = input.SortOrder
	c.IsActive = boolOr(input.IsActive, c.IsActive)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, pkgerrors.Backend(err, "update category")
	}
	dto := CategoryFromModel(*c)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Backend(err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}
	return s.delete(ctx, &models.Category{}, id, "category")
}

func (s *service) ListSubcategories(ctx context.Context, params pagination.Params, filter SubcategoryFilter) (pagination.Page[SubcategoryDTO], error) {
	page, err := s.repo.ListSubcategories(ctx, params, filter)
	if err != nil {
		return pagination.Page[SubcategoryDTO]{}, pkgerrors.Backend(err, "list subcategories")
	}
	return pagination.Map(page, SubcategoryFromModel), nil
}

func (s *service) CreateSubcategory(ctx context.Context, input SubcategoryInput) (*SubcategoryDTO, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	category, err := s.category(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	sub := &models.Subcategory{
		CategoryID:  category.ID,
		Name:        name,
		Description: optional(input.Description),
		ImageURLs:   imageURLs(input.ImageURLs),
		IsActive:    boolOr(input.IsActive, true),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, pkgerrors.Backend(err, "create subcategory")
	}
	sub.Category = category
	dto := SubcategoryFromModel(*sub)
	return &dto, nil
}

func (s *service) UpdateSubcategory(ctx context.Context, id uuid.UUID, input SubcategoryInput) (*SubcategoryDTO, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	sub, err := s.repo.FindSubcategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subcategory not found", "load subcategory")
	}
	if input.CategoryID != uuid.Nil && input.CategoryID != sub.CategoryID {
		category, err := s.category(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		sub.CategoryID = category.ID
		sub.Category = category
	}
	sub.Name = name
	sub.Description = optional(input.Description)
	sub.ImageURLs = imageURLs(input.ImageURLs)
	sub.IsActive = boolOr(input.IsActive, sub.IsActive)
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, pkgerrors.Backend(err, "update subcategory")
	}
	dto := SubcategoryFromModel(*sub)
	return &dto, nil
}

func (s *service) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountProductsInSubcategory(ctx, id)
	if err != nil {
		return pkgerrors.Backend(err, "count subcategory products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "subcategory still has products")
	}
	return s.delete(ctx, &models.Subcategory{}, id, "subcategory")
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filter ProductFilter) (pagination.Page[ProductDTO], error) {
	page, err := s.repo.ListProducts(ctx, params, filter)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Backend(err, "list products")
	}
	return pagination.Map(page, ProductFromModel), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	dto := ProductFromModel(*p)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := s.validateProduct(ctx, input); err != nil {
		return nil, err
	}
	p := &models.Product{
		WarehouseID:   input.WarehouseID,
		SubcategoryID: input.SubcategoryID,
		Name:          strings.TrimSpace(input.Name),
		Description:   optional(input.Description),
		SKU:           optional(input.SKU),
		PriceUSD:      input.PriceUSD.Round(2),
		Stock:         input.Stock,
		ImageURLs:     imageURLs(input.ImageURLs),
		IsActive:      boolOr(input.IsActive, true),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, pkgerrors.Backend(err, "create product")
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	if input.WarehouseID == uuid.Nil {
		input.WarehouseID = p.WarehouseID
	}
	if input.SubcategoryID == uuid.Nil {
		input.SubcategoryID = p.SubcategoryID
	}
	if err := s.validateProduct(ctx, input); err != nil {
		return nil, err
	}

	p.WarehouseID = input.WarehouseID
	p.SubcategoryID = input.SubcategoryID
	p.Name = strings.TrimSpace(input.Name)
	p.Description = optional(input.Description)
	p.SKU = optional(input.SKU)
	p.PriceUSD = input.PriceUSD.Round(2)
	p.Stock = input.Stock
	p.ImageURLs = imageURLs(input.ImageURLs)
	p.IsActive = boolOr(input.IsActive, p.IsActive)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, pkgerrors.Backend(err, "update product")
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *service) SetProductActive(ctx context.Context, id uuid.UUID, active bool) (*ProductDTO, error) {
	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	p.IsActive = active
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, pkgerrors.Backend(err, "update product")
	}
	dto := ProductFromModel(*p)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, &models.Product{}, id, "product")
}

func (s *service) validateProduct(ctx context.Context, input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceUSD.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	if input.WarehouseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse_id is required")
	}
	if input.SubcategoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subcategory_id is required")
	}

	exists, err := s.repo.WarehouseExists(ctx, input.WarehouseID)
	if err != nil {
		return pkgerrors.Backend(err, "load warehouse")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse does not exist")
	}
	if _, err := s.repo.FindSubcategory(ctx, input.SubcategoryID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "subcategory does not exist")
		}
		return pkgerrors.Backend(err, "load subcategory")
	}
	return nil
}

func (s *service) category(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Backend(err, "load category")
	}
	return c, nil
}

func (s *service) delete(ctx context.Context, model any, id uuid.UUID, noun string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, noun+" id required")
	}
	deleted, err := s.repo.Delete(ctx, model, id)
	if err != nil {
		return pkgerrors.Backend(err, "delete "+noun)
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, noun+" not found")
	}
	return nil
}

func requiredName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return name, nil
}

func notFoundOr(err error, notFound, op string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Backend(err, op)
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func imageURLs(values []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
