package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/enums"
)

// Notification is a staff-facing feed entry. A nil RecipientID targets every
// admin and team member.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey"`
	RecipientID *uuid.UUID             `gorm:"column:recipient_id;type:uuid;index"`
	WarehouseID *uuid.UUID             `gorm:"column:warehouse_id;type:uuid"`
	OrderID     *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	Type        enums.NotificationType `gorm:"column:type;not null"`
	Title       string                 `gorm:"column:title;not null"`
	Message     string                 `gorm:"column:message;not null"`
	Link        *string                `gorm:"column:link"`
	ReadAt      *time.Time             `gorm:"column:read_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
