package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Repository reads customer profiles and their order history.
type Repository interface {
	CustomerIDsByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter, ids []uuid.UUID) (pagination.Page[models.User], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Stats(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID]Stats, error)
	LastOrderAt(ctx context.Context, customerID uuid.UUID) (*time.Time, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) CustomerIDsByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).Model(&models.Order{}).
		Distinct("customer_id").
		Where("warehouse_id = ?", warehouseID).
		Pluck("customer_id", &ids).Error
	return ids, err
}

// List restricts the result to ids when ids is non-nil.
func (r *repository) List(ctx context.Context, params pagination.Params, filter ListFilter, ids []uuid.UUID) (pagination.Page[models.User], error) {
	scopes := []repo.Scope{
		func(db *gorm.DB) *gorm.DB { return db.Where("role = ?", enums.UserRoleCustomer) },
		repo.Search(filter.Search, "full_name", "email", "phone", "id_number"),
		repo.Eq("is_active", filter.IsActive),
	}
	if ids != nil {
		scopes = append(scopes, repo.In("id", ids))
	}
	return repo.Paginate[models.User](ctx, r.DB(ctx), params, repo.ListQuery{
		Order:  "created_at DESC, id ASC",
		Scopes: scopes,
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB(ctx).Where("id = ? AND role = ?", id, enums.UserRoleCustomer).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

type statsRow struct {
	CustomerID uuid.UUID
	OrderCount int64
	TotalSpent decimal.NullDecimal
}

func (r *repository) Stats(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID]Stats, error) {
	out := make(map[uuid.UUID]Stats, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}

	var rows []statsRow
	err := r.DB(ctx).Model(&models.Order{}).
		Select("customer_id, COUNT(*) AS order_count, SUM(total_usd) AS total_spent").
		Where("customer_id IN ? AND status <> ?", customerIDs, enums.OrderStatusCancelled).
		Group("customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats := Stats{CustomerID: row.CustomerID, OrderCount: row.OrderCount}
		if row.TotalSpent.Valid {
			stats.TotalSpentUSD = row.TotalSpent.Decimal.Round(2)
		}
		out[row.CustomerID] = stats
	}
	return out, nil
}

func (r *repository) LastOrderAt(ctx context.Context, customerID uuid.UUID) (*time.Time, error) {
	var times []time.Time
	err := r.DB(ctx).Model(&models.Order{}).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(1).
		Pluck("created_at", &times).Error
	if err != nil || len(times) == 0 {
		return nil, err
	}
	return &times[0], nil
}
