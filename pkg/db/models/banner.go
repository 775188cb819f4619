package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Banner is a marketing image shown in the customer app.
type Banner struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	ImageURL    string     `gorm:"column:image_url;not null"`
	LinkURL     *string    `gorm:"column:link_url"`
	WarehouseID *uuid.UUID `gorm:"column:warehouse_id;type:uuid;index"`
	Position    int        `gorm:"column:position;not null;default:0"`
	IsActive    bool       `gorm:"column:is_active;not null"`
	StartsAt    *time.Time `gorm:"column:starts_at"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Banner) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
