package banners

import (
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db/models"
)

type BannerDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	ImageURL    string     `json:"image_url"`
	LinkURL     *string    `json:"link_url,omitempty"`
	WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
	Position    int        `json:"position"`
	IsActive    bool       `json:"is_active"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromModel(m models.Banner) BannerDTO {
	return BannerDTO{
		ID:          m.ID,
		Title:       m.Title,
		ImageURL:    m.ImageURL,
		LinkURL:     m.LinkURL,
		WarehouseID: m.WarehouseID,
		Position:    m.Position,
		IsActive:    m.IsActive,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ListFilter narrows banners. LiveAt keeps active banners whose schedule
// window contains that instant.
type ListFilter struct {
	WarehouseID *uuid.UUID
	IsActive    *bool
	LiveAt      *time.Time
}

type Input struct {
	Title       string     `json:"title" validate:"required,max=120"`
	ImageURL    string     `json:"image_url" validate:"required,url"`
	LinkURL     *string    `json:"link_url,omitempty" validate:"omitempty,url"`
	WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
	Position    int        `json:"position" validate:"gte=0"`
	IsActive    *bool      `json:"is_active,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}
