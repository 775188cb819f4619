package customers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/testdb"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

type countingRepo struct {
	ids        []uuid.UUID
	listCalls  int
	statsCalls int
}

func (c *countingRepo) CustomerIDsByWarehouse(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return c.ids, nil
}

func (c *countingRepo) List(_ context.Context, params pagination.Params, _ ListFilter, ids []uuid.UUID) (pagination.Page[models.User], error) {
	c.listCalls++
	rows := make([]models.User, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.User{ID: id, Role: enums.UserRoleCustomer})
	}
	return pagination.NewPage(rows, int64(len(rows)), params), nil
}

func (c *countingRepo) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (c *countingRepo) Stats(context.Context, []uuid.UUID) (map[uuid.UUID]Stats, error) {
	c.statsCalls++
	return map[uuid.UUID]Stats{}, nil
}

func (c *countingRepo) LastOrderAt(context.Context, uuid.UUID) (*time.Time, error) {
	return nil, nil
}

func TestWarehouseWithoutOrdersShortCircuits(t *testing.T) {
	repo := &countingRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	warehouse := uuid.New()
	page, err := svc.List(context.Background(), pagination.Params{Page: 1, PageSize: 10}, ListFilter{WarehouseID: &warehouse})
	require.NoError(t, err)
	require.NotNil(t, page.Data)
	require.Empty(t, page.Data)
	require.Zero(t, page.TotalCount)
	require.Zero(t, page.TotalPages)
	require.Zero(t, repo.listCalls, "range query must not run")
	require.Zero(t, repo.statsCalls)
}

func TestWarehouseFilterPassesResolvedIDs(t *testing.T) {
	repo := &countingRepo{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	warehouse := uuid.New()
	page, err := svc.List(context.Background(), pagination.Params{}, ListFilter{WarehouseID: &warehouse})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.TotalCount)
	require.Equal(t, 1, repo.listCalls)
}

func TestGetMissingCustomer(t *testing.T) {
	svc, err := NewService(&countingRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func newCustomer(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	u := &models.User{Email: fmt.Sprintf("%s@llanero.test", uuid.NewString()), FullName: name, Role: enums.UserRoleCustomer, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u.ID
}

func newOrder(t *testing.T, db *gorm.DB, number int64, customer, warehouse uuid.UUID, total string, status enums.OrderStatus) {
	t.Helper()
	amount := decimal.RequireFromString(total)
	o := &models.Order{
		OrderNumber: number, CustomerID: customer, WarehouseID: warehouse, Status: status,
		SubtotalUSD: amount, DeliveryFeeUSD: decimal.Zero, TotalUSD: amount,
		ExchangeRate: decimal.NewFromInt(36), TotalVES: amount.Mul(decimal.NewFromInt(36)),
		DeliveryAddress: "Calle 1",
	}
	require.NoError(t, db.Create(o).Error)
}

func TestListWithSqliteAndStats(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	warehouse := &models.Warehouse{Name: "Bodegón", Address: "Calle 1", IsActive: true}
	require.NoError(t, db.Create(warehouse).Error)
	empty := &models.Warehouse{Name: "Sin pedidos", Address: "Calle 2", IsActive: true}
	require.NoError(t, db.Create(empty).Error)

	ana := newCustomer(t, db, "Ana Rojas")
	newCustomer(t, db, "Luis Silva")
	newOrder(t, db, 1, ana, warehouse.ID, "10.50", enums.OrderStatusDelivered)
	newOrder(t, db, 2, ana, warehouse.ID, "4.50", enums.OrderStatusPending)
	newOrder(t, db, 3, ana, warehouse.ID, "99", enums.OrderStatusCancelled)

	all, err := svc.List(ctx, pagination.Params{}, ListFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, all.TotalCount)

	scoped, err := svc.List(ctx, pagination.Params{}, ListFilter{WarehouseID: &warehouse.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, scoped.TotalCount)
	require.Equal(t, ana, scoped.Data[0].ID)
	require.EqualValues(t, 2, scoped.Data[0].OrderCount)
	require.True(t, scoped.Data[0].TotalSpentUSD.Equal(decimal.NewFromInt(15)), scoped.Data[0].TotalSpentUSD.String())

	var queries int64
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("count_queries", func(*gorm.DB) {
		atomic.AddInt64(&queries, 1)
	}))
	none, err := svc.List(ctx, pagination.Params{}, ListFilter{WarehouseID: &empty.ID})
	require.NoError(t, err)
	require.Zero(t, none.TotalCount)
	require.EqualValues(t, 1, atomic.LoadInt64(&queries), "only the id resolution query runs")

	detail, err := svc.Get(ctx, ana)
	require.NoError(t, err)
	require.EqualValues(t, 2, detail.OrderCount)
	require.NotNil(t, detail.LastOrderAt)
}
