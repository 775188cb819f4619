package members

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/llanero/admin-backend/internal/repo"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Repository persists staff profiles and their warehouse assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, roles []enums.UserRole, filter ListFilter) (pagination.Page[models.User], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, u *models.User) error
	ReplaceAssignments(ctx context.Context, userID uuid.UUID, warehouseIDs []uuid.UUID) error
	CountWarehouses(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, params pagination.Params, roles []enums.UserRole, filter ListFilter) (pagination.Page[models.User], error) {
	return repo.Paginate[models.User](ctx, r.db, params, repo.ListQuery{
		Order:    "full_name ASC, id ASC",
		Preloads: []string{"Warehouses.Warehouse"},
		Scopes: []repo.Scope{
			repo.In("role", roles),
			repo.Search(filter.Search, "full_name", "email", "phone"),
			repo.Eq("is_active", filter.IsActive),
			repo.Eq("delivery_status", filter.DeliveryStatus),
			r.inWarehouse(ctx, filter.WarehouseID),
		},
	})
}

func (r *repository) inWarehouse(ctx context.Context, warehouseID *uuid.UUID) repo.Scope {
	if warehouseID == nil {
		return nil
	}
	assigned := r.db.WithContext(ctx).Model(&models.WarehouseAssignment{}).Select("user_id").Where("warehouse_id = ?", *warehouseID)
	return func(db *gorm.DB) *gorm.DB { return db.Where("id IN (?)", assigned) }
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Warehouses.Warehouse").Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert writes the profile keyed by id. A profile may already exist when the
// provider created it through a signup hook.
func (r *repository) Upsert(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "phone", "id_number", "role", "is_active", "delivery_status", "vehicle_type", "vehicle_plate", "updated_at"}),
		}).
		Create(u).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Save(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
}

// ReplaceAssignments deletes every assignment of userID and inserts one per warehouse.
func (r *repository) ReplaceAssignments(ctx context.Context, userID uuid.UUID, warehouseIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&models.WarehouseAssignment{}).Error; err != nil {
		return err
	}
	if len(warehouseIDs) == 0 {
		return nil
	}
	rows := make([]models.WarehouseAssignment, 0, len(warehouseIDs))
	for _, id := range warehouseIDs {
		rows = append(rows, models.WarehouseAssignment{UserID: userID, WarehouseID: id})
	}
	return db.Create(&rows).Error
}

func (r *repository) CountWarehouses(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Warehouse{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
