package orders

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds an orders repository to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Order], error) {
	return repo.Paginate[models.Order](ctx, r.db, params, repo.ListQuery{
		Order:    "created_at DESC, order_number DESC",
		Preloads: []string{"Customer", "Warehouse", "DeliveryMember"},
		Scopes: []repo.Scope{
			repo.Eq("warehouse_id", filter.WarehouseID),
			repo.Eq("customer_id", filter.CustomerID),
			repo.Eq("status", filter.Status),
			repo.Between("created_at", filter.From, filter.To),
			r.search(ctx, filter.Search),
		},
	})
}

func (r *repository) search(ctx context.Context, term string) repo.Scope {
	term = strings.TrimPrefix(strings.TrimSpace(term), "#")
	if term == "" {
		return nil
	}
	if n, err := strconv.ParseInt(term, 10, 64); err == nil {
		return func(db *gorm.DB) *gorm.DB { return db.Where("order_number = ?", n) }
	}
	customers := r.db.WithContext(ctx).Model(&models.User{}).Select("id").
		Where("LOWER(full_name) LIKE ?", "%"+strings.ToLower(term)+"%")
	return func(db *gorm.DB) *gorm.DB { return db.Where("customer_id IN (?)", customers) }
}

func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Warehouse").
		Preload("DeliveryMember").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CompareAndSetStatus only moves the order when it is still in status from.
func (r *repository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetDeliveryMember(ctx context.Context, id uuid.UUID, memberID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", id, enums.TerminalOrderStatuses).
		Updates(map[string]any{"delivery_member_id": memberID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindDeliveryMember returns the delivery profile only when it is assigned to warehouseID.
func (r *repository) FindDeliveryMember(ctx context.Context, memberID, warehouseID uuid.UUID) (*models.User, error) {
	var member models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", memberID, enums.UserRoleDelivery).
		Where("id IN (?)", r.db.WithContext(ctx).Model(&models.WarehouseAssignment{}).Select("user_id").Where("warehouse_id = ?", warehouseID)).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) SetMemberDeliveryStatus(ctx context.Context, memberID uuid.UUID, status enums.DeliveryStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", memberID).
		Updates(map[string]any{"delivery_status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}
