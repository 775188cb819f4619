package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Warehouse is a merchant location (bodegón or restaurant) that receives orders.
type Warehouse struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Address        string          `gorm:"column:address;not null"`
	Phone          *string         `gorm:"column:phone"`
	LogoURL        *string         `gorm:"column:logo_url"`
	DeliveryFeeUSD decimal.Decimal `gorm:"column:delivery_fee_usd;type:numeric(12,2);not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null"`
	CreatedBy      *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	UpdatedBy      *uuid.UUID      `gorm:"column:updated_by;type:uuid"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *Warehouse) BeforeCreate(*gorm.DB) error {
	ensureID(&w.ID)
	return nil
}
