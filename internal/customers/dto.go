package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/pkg/db/models"
)

// CustomerDTO is a customer profile with its purchase history summary.
type CustomerDTO struct {
	ID            uuid.UUID       `json:"id"`
	Email         string          `json:"email"`
	FullName      string          `json:"full_name"`
	Phone         *string         `json:"phone,omitempty"`
	IDNumber      *string         `json:"id_number,omitempty"`
	IsActive      bool            `json:"is_active"`
	OrderCount    int64           `json:"order_count"`
	TotalSpentUSD decimal.Decimal `json:"total_spent_usd"`
	LastOrderAt   *time.Time      `json:"last_order_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Stats aggregates the non-cancelled orders of one customer.
type Stats struct {
	CustomerID    uuid.UUID
	OrderCount    int64
	TotalSpentUSD decimal.Decimal
	LastOrderAt   *time.Time
}

func FromModel(m models.User, stats Stats) CustomerDTO {
	return CustomerDTO{
		ID:            m.ID,
		Email:         m.Email,
		FullName:      m.FullName,
		Phone:         m.Phone,
		IDNumber:      m.IDNumber,
		IsActive:      m.IsActive,
		OrderCount:    stats.OrderCount,
		TotalSpentUSD: stats.TotalSpentUSD,
		LastOrderAt:   stats.LastOrderAt,
		CreatedAt:     m.CreatedAt,
	}
}

// ListFilter narrows the customers table. WarehouseID keeps customers that
// ordered from that warehouse at least once.
type ListFilter struct {
	Search      string
	WarehouseID *uuid.UUID
	IsActive    *bool
}
