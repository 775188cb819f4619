package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/enums"
)

// Order is a customer purchase from one warehouse, priced in USD with the VES
// equivalent frozen at the exchange rate of the moment.
type Order struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderNumber      int64             `gorm:"column:order_number;not null;default:nextval('orders_order_number_seq')"`
	CustomerID       uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	WarehouseID      uuid.UUID         `gorm:"column:warehouse_id;type:uuid;not null;index"`
	DeliveryMemberID *uuid.UUID        `gorm:"column:delivery_member_id;type:uuid"`
	PaymentMethodID  *uuid.UUID        `gorm:"column:payment_method_id;type:uuid"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	SubtotalUSD      decimal.Decimal   `gorm:"column:subtotal_usd;type:numeric(12,2);not null"`
	DeliveryFeeUSD   decimal.Decimal   `gorm:"column:delivery_fee_usd;type:numeric(12,2);not null"`
	TotalUSD         decimal.Decimal   `gorm:"column:total_usd;type:numeric(12,2);not null"`
	ExchangeRate     decimal.Decimal   `gorm:"column:exchange_rate;type:numeric(14,4);not null"`
	TotalVES         decimal.Decimal   `gorm:"column:total_ves;type:numeric(16,2);not null"`
	DeliveryAddress  string            `gorm:"column:delivery_address;not null"`
	Notes            *string           `gorm:"column:notes"`
	PaymentReference *string           `gorm:"column:payment_reference"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Customer       *User       `gorm:"foreignKey:CustomerID"`
	Warehouse      *Warehouse  `gorm:"foreignKey:WarehouseID"`
	DeliveryMember *User       `gorm:"foreignKey:DeliveryMemberID"`
	Items          []OrderItem `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem is a priced line of an order. Name and price are copied from the
// product at checkout time.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPriceUSD decimal.Decimal `gorm:"column:unit_price_usd;type:numeric(12,2);not null"`
	TotalUSD     decimal.Decimal `gorm:"column:total_usd;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
