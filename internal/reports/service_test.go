package reports

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/internal/testdb"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
)

var day = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	svc       Service
	warehouse uuid.UUID
	other     uuid.UUID
	customer  uuid.UUID
	number    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testdb.New(t)
	orderSvc, err := orders.NewService(orders.NewRepository(conn), testdb.TxRunner{DB: conn})
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), orderSvc)
	require.NoError(t, err)

	fx := &fixture{db: conn, svc: svc, number: 100}
	for _, id := range []*uuid.UUID{&fx.warehouse, &fx.other} {
		w := &models.Warehouse{Name: "Bodegón " + uuid.NewString()[:4], Address: "Calle 5", IsActive: true}
		require.NoError(t, conn.Create(w).Error)
		*id = w.ID
	}
	c := &models.User{Email: "cliente@llanero.test", FullName: "Ana Rojas", Role: enums.UserRoleCustomer, IsActive: true}
	require.NoError(t, conn.Create(c).Error)
	fx.customer = c.ID
	return fx
}

func (fx *fixture) order(t *testing.T, warehouse uuid.UUID, status enums.OrderStatus, at time.Time, items ...models.OrderItem) {
	t.Helper()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalUSD)
	}
	fx.number++
	o := &models.Order{
		OrderNumber:     fx.number,
		CustomerID:      fx.customer,
		WarehouseID:     warehouse,
		Status:          status,
		SubtotalUSD:     total,
		DeliveryFeeUSD:  decimal.Zero,
		TotalUSD:        total,
		ExchangeRate:    decimal.NewFromInt(40),
		TotalVES:        total.Mul(decimal.NewFromInt(40)),
		DeliveryAddress: "Sector La Floresta",
		CreatedAt:       at,
		Items:           items,
	}
	require.NoError(t, fx.db.Create(o).Error)
}

func item(name string, qty int, unit int64) models.OrderItem {
	return models.OrderItem{
		Name:         name,
		Quantity:     qty,
		UnitPriceUSD: decimal.NewFromInt(unit),
		TotalUSD:     decimal.NewFromInt(unit * int64(qty)),
	}
}

func TestSummaryTotalsExcludeCancelled(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	fx.order(t, fx.warehouse, enums.OrderStatusDelivered, day.Add(2*time.Hour), item("Harina PAN", 3, 2), item("Queso llanero", 1, 6))
	fx.order(t, fx.warehouse, enums.OrderStatusPending, day.Add(5*time.Hour), item("Harina PAN", 1, 2))
	fx.order(t, fx.warehouse, enums.OrderStatusCancelled, day.Add(6*time.Hour), item("Ron", 1, 20))
	fx.order(t, fx.other, enums.OrderStatusDelivered, day.Add(7*time.Hour), item("Queso llanero", 2, 6))
	fx.order(t, fx.warehouse, enums.OrderStatusDelivered, day.Add(-time.Hour), item("Fuera de rango", 1, 99))

	summary, err := fx.svc.Summary(ctx, Filter{From: day, To: day.Add(24 * time.Hour), WarehouseID: &fx.warehouse})
	require.NoError(t, err)

	require.EqualValues(t, 2, summary.OrderCount)
	require.EqualValues(t, 1, summary.CancelledCount)
	require.True(t, summary.TotalUSD.Equal(decimal.NewFromInt(14)), summary.TotalUSD.String())
	require.True(t, summary.TotalVES.Equal(decimal.NewFromInt(560)), summary.TotalVES.String())
	require.True(t, summary.AverageTicketUSD.Equal(decimal.NewFromInt(7)), summary.AverageTicketUSD.String())

	require.Len(t, summary.ByStatus, 6)
	require.Equal(t, enums.OrderStatusPending, summary.ByStatus[0].Status)
	require.Equal(t, "Pendiente", summary.ByStatus[0].Label)
	require.EqualValues(t, 1, summary.ByStatus[0].Count)

	require.Len(t, summary.TopProducts, 2)
	require.Equal(t, "Harina PAN", summary.TopProducts[0].Name)
	require.EqualValues(t, 4, summary.TopProducts[0].Quantity)
	require.True(t, summary.TopProducts[1].TotalUSD.Equal(decimal.NewFromInt(6)))
}

func TestSummaryRejectsBadRanges(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Summary(ctx, Filter{From: day})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = fx.svc.Summary(ctx, Filter{From: day, To: day})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = fx.svc.Summary(ctx, Filter{From: day, To: day.AddDate(2, 0, 0)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestExportWritesEveryOrderAcrossPages(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	for i := 0; i < 105; i++ {
		fx.order(t, fx.warehouse, enums.OrderStatusDelivered, day.Add(time.Duration(i)*time.Minute), item("Harina PAN", 1, 2))
	}

	data, err := fx.svc.Export(ctx, Filter{From: day, To: day.Add(24 * time.Hour)})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.Equal(t, []string{summarySheet, productsSheet, ordersSheet}, f.GetSheetList())

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 106)
	require.Equal(t, "Pedido", rows[0][0])

	seen := map[string]bool{}
	for _, r := range rows[1:] {
		seen[r[0]] = true
	}
	require.Len(t, seen, 105)
	require.True(t, seen[fmt.Sprintf("#%d", fx.number)])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Equal(t, "Pedidos", summary[2][0])
	require.Equal(t, "105", summary[2][1])
}
