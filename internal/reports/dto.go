package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/pkg/enums"
)

// Filter selects orders created in [From, To), optionally for one warehouse.
type Filter struct {
	From        time.Time
	To          time.Time
	WarehouseID *uuid.UUID
}

// StatusTotal aggregates the orders currently in one status.
type StatusTotal struct {
	Status   enums.OrderStatus `json:"status"`
	Label    string            `json:"label"`
	Count    int64             `json:"count"`
	TotalUSD decimal.Decimal   `json:"total_usd"`
}

// ProductTotal is one line of the best sellers table.
type ProductTotal struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	TotalUSD decimal.Decimal `json:"total_usd"`
}

// Summary is the sales report. Revenue figures exclude cancelled orders.
type Summary struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	WarehouseID      *uuid.UUID      `json:"warehouse_id,omitempty"`
	OrderCount       int64           `json:"order_count"`
	CancelledCount   int64           `json:"cancelled_count"`
	TotalUSD         decimal.Decimal `json:"total_usd"`
	TotalVES         decimal.Decimal `json:"total_ves"`
	AverageTicketUSD decimal.Decimal `json:"average_ticket_usd"`
	ByStatus         []StatusTotal   `json:"by_status"`
	TopProducts      []ProductTotal  `json:"top_products"`
}
