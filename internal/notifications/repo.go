package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	CreateForOrder(ctx context.Context, notification *models.Notification) (bool, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Notification], error)
	MarkRead(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, filter ListFilter, now time.Time) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ExistsForOrder(ctx context.Context, orderID uuid.UUID, typ enums.NotificationType) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type notificationMarkResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(notification).Error
}

// CreateForOrder inserts an order notification unless the unique new-order
// index already holds one. It reports whether a row was written.
func (r *repositoryImpl) CreateForOrder(ctx context.Context, notification *models.Notification) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(notification)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repositoryImpl) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Notification], error) {
	return repo.Paginate[models.Notification](ctx, r.db, params, repo.ListQuery{
		Order:  "created_at DESC, id DESC",
		Scopes: filter.scopes(),
	})
}

func (f ListFilter) scopes() []repo.Scope {
	scopes := []repo.Scope{
		repo.Eq("warehouse_id", f.WarehouseID),
		repo.Eq("type", f.Type),
		recipient(f.RecipientID),
	}
	if f.UnreadOnly {
		unread := true
		scopes = append(scopes, repo.IsNull("read_at", &unread))
	}
	return scopes
}

// recipient keeps broadcast rows (no recipient) alongside the user's own.
func recipient(id *uuid.UUID) repo.Scope {
	if id == nil {
		return nil
	}
	v := *id
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(recipient_id IS NULL OR recipient_id = ?)", v)
	}
}

func (r *repositoryImpl) MarkRead(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", notificationID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return notificationMarkResult{}, result.Error
	}

	mark := notificationMarkResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Count(&count).Error; err != nil {
		return notificationMarkResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, filter ListFilter, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("read_at IS NULL")
	for _, scope := range filter.scopes() {
		if scope != nil {
			query = scope(query)
		}
	}
	result := query.UpdateColumn("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("read_at IS NOT NULL AND created_at < ?", cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) ExistsForOrder(ctx context.Context, orderID uuid.UUID, typ enums.NotificationType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("order_id = ? AND type = ?", orderID, typ).
		Count(&count).Error
	return count > 0, err
}
