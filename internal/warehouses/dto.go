package warehouses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/pkg/db/models"
)

// WarehouseDTO is the API shape of a warehouse.
type WarehouseDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Phone          *string         `json:"phone,omitempty"`
	LogoURL        *string         `json:"logo_url,omitempty"`
	DeliveryFeeUSD decimal.Decimal `json:"delivery_fee_usd"`
	IsActive       bool            `json:"is_active"`
	CreatedBy      *uuid.UUID      `json:"created_by,omitempty"`
	UpdatedBy      *uuid.UUID      `json:"updated_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FromModel maps the persisted warehouse into a DTO.
func FromModel(m models.Warehouse) WarehouseDTO {
	return WarehouseDTO{
		ID:             m.ID,
		Name:           m.Name,
		Address:        m.Address,
		Phone:          m.Phone,
		LogoURL:        m.LogoURL,
		DeliveryFeeUSD: m.DeliveryFeeUSD,
		IsActive:       m.IsActive,
		CreatedBy:      m.CreatedBy,
		UpdatedBy:      m.UpdatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ListFilter narrows the warehouse list.
type ListFilter struct {
	Search   string
	IsActive *bool
}

// CreateWarehouseInput captures the fields required to open a warehouse.
type CreateWarehouseInput struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Address        string          `json:"address" validate:"required,max=255"`
	Phone          *string         `json:"phone,omitempty" validate:"omitempty,max=40"`
	LogoURL        *string         `json:"logo_url,omitempty" validate:"omitempty,url"`
	DeliveryFeeUSD decimal.Decimal `json:"delivery_fee_usd"`
	IsActive       *bool           `json:"is_active,omitempty"`
}

// UpdateWarehouseInput carries the fields to change; nil fields are left as is.
type UpdateWarehouseInput struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address        *string          `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	Phone          *string          `json:"phone,omitempty" validate:"omitempty,max=40"`
	LogoURL        *string          `json:"logo_url,omitempty" validate:"omitempty,url"`
	DeliveryFeeUSD *decimal.Decimal `json:"delivery_fee_usd,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}
