package banners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service manages marketing banners.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[BannerDTO], error)
	Create(ctx context.Context, input Input) (*BannerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*BannerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("banners repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[BannerDTO], error) {
	page, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return pagination.Page[BannerDTO]{}, pkgerrors.Backend(err, "list banners")
	}
	return pagination.Map(page, FromModel), nil
}

func (s *service) Create(ctx context.Context, input Input) (*BannerDTO, error) {
	b := &models.Banner{IsActive: true}
	if err := apply(b, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, pkgerrors.Backend(err, "create banner")
	}
	dto := FromModel(*b)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*BannerDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Backend(err, "load banner")
	}
	if err := apply(b, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, pkgerrors.Backend(err, "update banner")
	}
	dto := FromModel(*b)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Backend(err, "delete banner")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}
	return nil
}

func (s *service) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeactivateExpired(ctx, now)
	if err != nil {
		return 0, pkgerrors.Backend(err, "deactivate expired banners")
	}
	return n, nil
}

func apply(b *models.Banner, input Input) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}
	if input.Position < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "position must not be negative")
	}
	if input.StartsAt != nil && input.EndsAt != nil && !input.EndsAt.After(*input.StartsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be after starts_at")
	}

	b.Title = title
	b.ImageURL = imageURL
	b.LinkURL = nil
	if input.LinkURL != nil && strings.TrimSpace(*input.LinkURL) != "" {
		link := strings.TrimSpace(*input.LinkURL)
		b.LinkURL = &link
	}
	b.WarehouseID = input.WarehouseID
	b.Position = input.Position
	b.StartsAt = utc(input.StartsAt)
	b.EndsAt = utc(input.EndsAt)
	if input.IsActive != nil {
		b.IsActive = *input.IsActive
	}
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
