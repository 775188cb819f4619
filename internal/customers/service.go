package customers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service exposes the read-only customers screen.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[CustomerDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("customers repository required")
	}
	return &service{repo: repo}, nil
}

// List resolves the warehouse filter to customer ids first. A warehouse with
// no orders returns an empty page without querying profiles.
func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[CustomerDTO], error) {
	var ids []uuid.UUID
	if filter.WarehouseID != nil {
		found, err := s.repo.CustomerIDsByWarehouse(ctx, *filter.WarehouseID)
		if err != nil {
			return pagination.Page[CustomerDTO]{}, pkgerrors.Backend(err, "resolve warehouse customers")
		}
		if len(found) == 0 {
			return pagination.Empty[CustomerDTO](params), nil
		}
		ids = found
	}

	page, err := s.repo.List(ctx, params, filter, ids)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Backend(err, "list customers")
	}

	pageIDs := make([]uuid.UUID, 0, len(page.Data))
	for _, row := range page.Data {
		pageIDs = append(pageIDs, row.ID)
	}
	stats, err := s.repo.Stats(ctx, pageIDs)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Backend(err, "load customer stats")
	}
	return pagination.Map(page, func(m models.User) CustomerDTO {
		return FromModel(m, stats[m.ID])
	}), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Backend(err, "load customer")
	}
	stats, err := s.repo.Stats(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, pkgerrors.Backend(err, "load customer stats")
	}
	summary := stats[id]
	if summary.LastOrderAt, err = s.repo.LastOrderAt(ctx, id); err != nil {
		return nil, pkgerrors.Backend(err, "load last order")
	}
	dto := FromModel(*customer, summary)
	return &dto, nil
}
