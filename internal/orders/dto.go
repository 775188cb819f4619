package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
)

// PersonRef is the short form of a profile embedded in order rows.
type PersonRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
}

// OrderDTO is one row of the orders table.
type OrderDTO struct {
	ID               uuid.UUID         `json:"id"`
	OrderNumber      int64             `json:"order_number"`
	Status           enums.OrderStatus `json:"status"`
	CustomerID       uuid.UUID         `json:"customer_id"`
	Customer         *PersonRef        `json:"customer,omitempty"`
	WarehouseID      uuid.UUID         `json:"warehouse_id"`
	WarehouseName    string            `json:"warehouse_name,omitempty"`
	DeliveryMemberID *uuid.UUID        `json:"delivery_member_id,omitempty"`
	DeliveryMember   *PersonRef        `json:"delivery_member,omitempty"`
	PaymentMethodID  *uuid.UUID        `json:"payment_method_id,omitempty"`
	SubtotalUSD      decimal.Decimal   `json:"subtotal_usd"`
	DeliveryFeeUSD   decimal.Decimal   `json:"delivery_fee_usd"`
	TotalUSD         decimal.Decimal   `json:"total_usd"`
	ExchangeRate     decimal.Decimal   `json:"exchange_rate"`
	TotalVES         decimal.Decimal   `json:"total_ves"`
	DeliveryAddress  string            `json:"delivery_address"`
	Notes            *string           `json:"notes,omitempty"`
	PaymentReference *string           `json:"payment_reference,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// OrderItemDTO is a line of the order detail view.
type OrderItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    *uuid.UUID      `json:"product_id,omitempty"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd"`
	TotalUSD     decimal.Decimal `json:"total_usd"`
}

// OrderDetailDTO adds the items to an order row.
type OrderDetailDTO struct {
	OrderDTO
	Items []OrderItemDTO `json:"items"`
}

func FromModel(m models.Order) OrderDTO {
	dto := OrderDTO{
		ID:               m.ID,
		OrderNumber:      m.OrderNumber,
		Status:           m.Status,
		CustomerID:       m.CustomerID,
		WarehouseID:      m.WarehouseID,
		DeliveryMemberID: m.DeliveryMemberID,
		PaymentMethodID:  m.PaymentMethodID,
		SubtotalUSD:      m.SubtotalUSD,
		DeliveryFeeUSD:   m.DeliveryFeeUSD,
		TotalUSD:         m.TotalUSD,
		ExchangeRate:     m.ExchangeRate,
		TotalVES:         m.TotalVES,
		DeliveryAddress:  m.DeliveryAddress,
		Notes:            m.Notes,
		PaymentReference: m.PaymentReference,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Customer:         personRef(m.Customer),
		DeliveryMember:   personRef(m.DeliveryMember),
	}
	if m.Warehouse != nil {
		dto.WarehouseName = m.Warehouse.Name
	}
	return dto
}

func DetailFromModel(m models.Order) OrderDetailDTO {
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPriceUSD: item.UnitPriceUSD,
			TotalUSD:     item.TotalUSD,
		})
	}
	return OrderDetailDTO{OrderDTO: FromModel(m), Items: items}
}

func personRef(u *models.User) *PersonRef {
	if u == nil {
		return nil
	}
	return &PersonRef{ID: u.ID, FullName: u.FullName, Email: u.Email, Phone: u.Phone}
}
