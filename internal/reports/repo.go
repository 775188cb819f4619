package reports

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
)

type Repository interface {
	StatusTotals(ctx context.Context, filter Filter) ([]statusRow, error)
	TopProducts(ctx context.Context, filter Filter, limit int) ([]productRow, error)
}

type statusRow struct {
	Status   enums.OrderStatus   `gorm:"column:status"`
	Count    int64               `gorm:"column:count"`
	TotalUSD decimal.NullDecimal `gorm:"column:total_usd"`
	TotalVES decimal.NullDecimal `gorm:"column:total_ves"`
}

type productRow struct {
	Name     string              `gorm:"column:name"`
	Quantity int64               `gorm:"column:quantity"`
	TotalUSD decimal.NullDecimal `gorm:"column:total_usd"`
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) StatusTotals(ctx context.Context, filter Filter) ([]statusRow, error) {
	var rows []statusRow
	err := r.DB(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count, SUM(total_usd) AS total_usd, SUM(total_ves) AS total_ves").
		Scopes(inRange("created_at", filter), inWarehouse("warehouse_id", filter)).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TopProducts(ctx context.Context, filter Filter, limit int) ([]productRow, error) {
	var rows []productRow
	err := r.DB(ctx).Table("order_items").
		Select("order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.total_usd) AS total_usd").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", enums.OrderStatusCancelled).
		Scopes(inRange("orders.created_at", filter), inWarehouse("orders.warehouse_id", filter)).
		Group("order_items.name").
		Order("quantity DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func inRange(column string, filter Filter) func(*gorm.DB) *gorm.DB {
	from, to := filter.From, filter.To
	return repo.Between(column, &from, &to)
}

func inWarehouse(column string, filter Filter) func(*gorm.DB) *gorm.DB {
	if filter.WarehouseID == nil {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return repo.Eq(column, filter.WarehouseID)
}
