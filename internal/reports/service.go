package reports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

const (
	defaultTopProducts = 10
	maxRange           = 366 * 24 * time.Hour
)

var statusOrder = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusConfirmed,
	enums.OrderStatusPreparing,
	enums.OrderStatusOnTheWay,
	enums.OrderStatusDelivered,
	enums.OrderStatusCancelled,
}

// OrderLister pages through orders for the export sheet.
type OrderLister interface {
	List(ctx context.Context, params pagination.Params, filter orders.ListFilter) (pagination.Page[orders.OrderDTO], error)
}

// Service builds the sales summary and its spreadsheet export.
type Service interface {
	Summary(ctx context.Context, filter Filter) (*Summary, error)
	Export(ctx context.Context, filter Filter) ([]byte, error)
}

type service struct {
	repo   Repository
	orders OrderLister
}

func NewService(repo Repository, orderLister OrderLister) (Service, error) {
	if repo == nil {
		return nil, errors.New("reports repository required")
	}
	if orderLister == nil {
		return nil, errors.New("order lister required")
	}
	return &service{repo: repo, orders: orderLister}, nil
}

// Validate normalizes the range to UTC and rejects empty or oversized ranges.
func (f Filter) Validate() (Filter, error) {
	if f.From.IsZero() || f.To.IsZero() {
		return f, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required")
	}
	f.From = f.From.UTC()
	f.To = f.To.UTC()
	if !f.To.After(f.From) {
		return f, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	if f.To.Sub(f.From) > maxRange {
		return f, pkgerrors.New(pkgerrors.CodeValidation, "date range must not exceed one year")
	}
	return f, nil
}

func (s *service) Summary(ctx context.Context, filter Filter) (*Summary, error) {
	filter, err := filter.Validate()
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.StatusTotals(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Backend(err, "load sales totals")
	}
	products, err := s.repo.TopProducts(ctx, filter, defaultTopProducts)
	if err != nil {
		return nil, pkgerrors.Backend(err, "load top products")
	}

	summary := &Summary{
		From:        filter.From,
		To:          filter.To,
		WarehouseID: filter.WarehouseID,
		TotalUSD:    decimal.Zero,
		TotalVES:    decimal.Zero,
		ByStatus:    make([]StatusTotal, 0, len(statusOrder)),
		TopProducts: make([]ProductTotal, 0, len(products)),
	}

	byStatus := make(map[enums.OrderStatus]statusRow, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}
	for _, status := range statusOrder {
		row := byStatus[status]
		usd := nullToZero(row.TotalUSD)
		summary.ByStatus = append(summary.ByStatus, StatusTotal{
			Status:   status,
			Label:    orders.StatusLabel(status),
			Count:    row.Count,
			TotalUSD: usd,
		})
		if status == enums.OrderStatusCancelled {
			summary.CancelledCount = row.Count
			continue
		}
		summary.OrderCount += row.Count
		summary.TotalUSD = summary.TotalUSD.Add(usd)
		summary.TotalVES = summary.TotalVES.Add(nullToZero(row.TotalVES))
	}
	summary.TotalUSD = summary.TotalUSD.Round(2)
	summary.TotalVES = summary.TotalVES.Round(2)
	summary.AverageTicketUSD = decimal.Zero
	if summary.OrderCount > 0 {
		summary.AverageTicketUSD = summary.TotalUSD.Div(decimal.NewFromInt(summary.OrderCount)).Round(2)
	}

	for _, p := range products {
		summary.TopProducts = append(summary.TopProducts, ProductTotal{
			Name:     p.Name,
			Quantity: p.Quantity,
			TotalUSD: nullToZero(p.TotalUSD),
		})
	}
	return summary, nil
}

func nullToZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal.Round(2)
}
