package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item stocked by one warehouse.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WarehouseID   uuid.UUID       `gorm:"column:warehouse_id;type:uuid;not null;index"`
	SubcategoryID uuid.UUID       `gorm:"column:subcategory_id;type:uuid;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Description   *string         `gorm:"column:description"`
	SKU           *string         `gorm:"column:sku"`
	PriceUSD      decimal.Decimal `gorm:"column:price_usd;type:numeric(12,2);not null"`
	Stock         int             `gorm:"column:stock;not null;default:0"`
	ImageURLs     pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	IsActive      bool            `gorm:"column:is_active;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Warehouse   *Warehouse   `gorm:"foreignKey:WarehouseID"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
