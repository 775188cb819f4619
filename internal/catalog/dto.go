package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/pkg/db/models"
)

type CategoryDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	ImageURLs        []string  `json:"image_urls"`
	SortOrder        int       `json:"sort_order"`
	IsActive         bool      `json:"is_active"`
	SubcategoryCount int       `json:"subcategory_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func CategoryFromModel(m models.Category) CategoryDTO {
	return CategoryDTO{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		ImageURLs:        urls(m.ImageURLs),
		SortOrder:        m.SortOrder,
		IsActive:         m.IsActive,
		SubcategoryCount: len(m.Subcategories),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type SubcategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	ImageURLs    []string  `json:"image_urls"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func SubcategoryFromModel(m models.Subcategory) SubcategoryDTO {
	dto := SubcategoryDTO{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		ImageURLs:   urls(m.ImageURLs),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Category != nil {
		dto.CategoryName = m.Category.Name
	}
	return dto
}

// ProductDTO flattens the catalog path so tables can render it without joins.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	WarehouseName   string          `json:"warehouse_name,omitempty"`
	SubcategoryID   uuid.UUID       `json:"subcategory_id"`
	SubcategoryName string          `json:"subcategory_name,omitempty"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	SKU             *string         `json:"sku,omitempty"`
	PriceUSD        decimal.Decimal `json:"price_usd"`
	Stock           int             `json:"stock"`
	ImageURLs       []string        `json:"image_urls"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ProductFromModel(m models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		SubcategoryID: m.SubcategoryID,
		Name:          m.Name,
		Description:   m.Description,
		SKU:           m.SKU,
		PriceUSD:      m.PriceUSD,
		Stock:         m.Stock,
		ImageURLs:     urls(m.ImageURLs),
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Warehouse != nil {
		dto.WarehouseName = m.Warehouse.Name
	}
	if m.Subcategory != nil {
		dto.SubcategoryName = m.Subcategory.Name
		categoryID := m.Subcategory.CategoryID
		dto.CategoryID = &categoryID
		if m.Subcategory.Category != nil {
			dto.CategoryName = m.Subcategory.Category.Name
		}
	}
	return dto
}

func urls(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type CategoryFilter struct {
	Search   string
	IsActive *bool
}

type SubcategoryFilter struct {
	CategoryID *uuid.UUID
	Search     string
	IsActive   *bool
}

type ProductFilter struct {
	WarehouseID   *uuid.UUID
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	IsActive      *bool
	Search        string
}

type CategoryInput struct {
	Name        string   `json:"name" validate:"required,max=80"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	ImageURLs   []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	SortOrder   int      `json:"sort_order"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type SubcategoryInput struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=80"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	ImageURLs   []string  `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

type ProductInput struct {
	WarehouseID   uuid.UUID       `json:"warehouse_id" validate:"required"`
	SubcategoryID uuid.UUID       `json:"subcategory_id" validate:"required"`
	Name          string          `json:"name" validate:"required,max=160"`
	Description   *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	SKU           *string         `json:"sku,omitempty" validate:"omitempty,max=64"`
	PriceUSD      decimal.Decimal `json:"price_usd"`
	Stock         int             `json:"stock" validate:"gte=0"`
	ImageURLs     []string        `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	IsActive      *bool           `json:"is_active,omitempty"`
}
