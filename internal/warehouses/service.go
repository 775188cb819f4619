package warehouses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service exposes warehouse management for the dashboard.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[WarehouseDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateWarehouseInput) (*WarehouseDTO, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error)
	SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*WarehouseDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires warehouse dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("warehouse repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[WarehouseDTO], error) {
	page, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return pagination.Page[WarehouseDTO]{}, pkgerrors.Backend(err, "list warehouses")
	}
	return pagination.Map(page, FromModel), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*w)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateWarehouseInput) (*WarehouseDTO, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if input.DeliveryFeeUSD.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
	}

	w := &models.Warehouse{
		Name:           name,
		Address:        address,
		Phone:          trimmed(input.Phone),
		LogoURL:        trimmed(input.LogoURL),
		DeliveryFeeUSD: input.DeliveryFeeUSD.Round(2),
		IsActive:       true,
	}
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}
	if actorID != uuid.Nil {
		w.CreatedBy = &actorID
		w.UpdatedBy = &actorID
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, pkgerrors.Backend(err, "create warehouse")
	}
	dto := FromModel(*w)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		w.Name = name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address must not be empty")
		}
		w.Address = address
	}
	if input.Phone != nil {
		w.Phone = trimmed(input.Phone)
	}
	if input.LogoURL != nil {
		w.LogoURL = trimmed(input.LogoURL)
	}
	if input.DeliveryFeeUSD != nil {
		if input.DeliveryFeeUSD.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
		}
		w.DeliveryFeeUSD = input.DeliveryFeeUSD.Round(2)
	}
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}
	return s.save(ctx, actorID, w)
}

func (s *service) SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*WarehouseDTO, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	w.IsActive = active
	return s.save(ctx, actorID, w)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse id required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Backend(err, "delete warehouse")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse id required")
	}
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Backend(err, "load warehouse")
	}
	return w, nil
}

func (s *service) save(ctx context.Context, actorID uuid.UUID, w *models.Warehouse) (*WarehouseDTO, error) {
	if actorID != uuid.Nil {
		w.UpdatedBy = &actorID
	}
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, pkgerrors.Backend(err, "update warehouse")
	}
	dto := FromModel(*w)
	return &dto, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
