package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/enums"
)

// PaymentMethod is an account customers can pay into. A nil WarehouseID makes
// it available for every warehouse.
type PaymentMethod struct {
	ID            uuid.UUID               `gorm:"type:uuid;primaryKey"`
	WarehouseID   *uuid.UUID              `gorm:"column:warehouse_id;type:uuid;index"`
	Type          enums.PaymentMethodType `gorm:"column:type;not null"`
	Name          string                  `gorm:"column:name;not null"`
	Currency      enums.Currency          `gorm:"column:currency;not null"`
	BankName      *string                 `gorm:"column:bank_name"`
	AccountHolder *string                 `gorm:"column:account_holder"`
	AccountNumber *string                 `gorm:"column:account_number"`
	IDNumber      *string                 `gorm:"column:id_number"`
	Phone         *string                 `gorm:"column:phone"`
	Email         *string                 `gorm:"column:email"`
	IsActive      bool                    `gorm:"column:is_active;not null"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PaymentMethod) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
