package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/enums"
)

// User is the profile row attached to an auth provider identity. The ID is the
// identity id, so it is only generated locally for seeded or test rows.
type User struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Email          string                `gorm:"column:email;not null;uniqueIndex"`
	FullName       string                `gorm:"column:full_name;not null"`
	Phone          *string               `gorm:"column:phone"`
	IDNumber       *string               `gorm:"column:id_number"`
	Role           enums.UserRole        `gorm:"column:role;not null"`
	IsActive       bool                  `gorm:"column:is_active;not null"`
	DeliveryStatus *enums.DeliveryStatus `gorm:"column:delivery_status"`
	VehicleType    *string               `gorm:"column:vehicle_type"`
	VehiclePlate   *string               `gorm:"column:vehicle_plate"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Warehouses []WarehouseAssignment `gorm:"foreignKey:UserID"`
}

func (User) TableName() string { return "profiles" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// WarehouseAssignment links a team or delivery member to a warehouse.
type WarehouseAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}

func (WarehouseAssignment) TableName() string { return "user_warehouses" }

func (a *WarehouseAssignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
