package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Order], error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error)
	SetDeliveryMember(ctx context.Context, id uuid.UUID, memberID uuid.UUID) (bool, error)
	FindDeliveryMember(ctx context.Context, memberID, warehouseID uuid.UUID) (*models.User, error)
	SetMemberDeliveryStatus(ctx context.Context, memberID uuid.UUID, status enums.DeliveryStatus) error
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ListFilter narrows the orders table. Search matches an order number exactly
// or a customer name partially.
type ListFilter struct {
	WarehouseID *uuid.UUID
	CustomerID  *uuid.UUID
	Status      *enums.OrderStatus
	From        *time.Time
	To          *time.Time
	Search      string
}
