package members

import (
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
)

type WarehouseRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// MemberDTO is a team or delivery profile with its warehouse assignments.
type MemberDTO struct {
	ID             uuid.UUID             `json:"id"`
	Email          string                `json:"email"`
	FullName       string                `json:"full_name"`
	Phone          *string               `json:"phone,omitempty"`
	IDNumber       *string               `json:"id_number,omitempty"`
	Role           enums.UserRole        `json:"role"`
	IsActive       bool                  `json:"is_active"`
	DeliveryStatus *enums.DeliveryStatus `json:"delivery_status,omitempty"`
	VehicleType    *string               `json:"vehicle_type,omitempty"`
	VehiclePlate   *string               `json:"vehicle_plate,omitempty"`
	Warehouses     []WarehouseRef        `json:"warehouses"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func FromModel(m models.User) MemberDTO {
	refs := make([]WarehouseRef, 0, len(m.Warehouses))
	for _, a := range m.Warehouses {
		ref := WarehouseRef{ID: a.WarehouseID}
		if a.Warehouse != nil {
			ref.Name = a.Warehouse.Name
		}
		refs = append(refs, ref)
	}
	return MemberDTO{
		ID:             m.ID,
		Email:          m.Email,
		FullName:       m.FullName,
		Phone:          m.Phone,
		IDNumber:       m.IDNumber,
		Role:           m.Role,
		IsActive:       m.IsActive,
		DeliveryStatus: m.DeliveryStatus,
		VehicleType:    m.VehicleType,
		VehiclePlate:   m.VehiclePlate,
		Warehouses:     refs,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ListFilter narrows the team and delivery tables.
type ListFilter struct {
	Search         string
	WarehouseID    *uuid.UUID
	IsActive       *bool
	DeliveryStatus *enums.DeliveryStatus
}

// UpdateMemberInput edits profile fields. Role changes and deletions go
// through the gateway because they touch the auth identity.
type UpdateMemberInput struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=40,ve_phone"`
	IDNumber     *string `json:"id_number,omitempty" validate:"omitempty,max=20,ve_id"`
	IsActive     *bool   `json:"is_active,omitempty"`
	VehicleType  *string `json:"vehicle_type,omitempty" validate:"omitempty,max=40"`
	VehiclePlate *string `json:"vehicle_plate,omitempty" validate:"omitempty,max=20"`
	// WarehouseIDs replaces the assignments when non-nil.
	WarehouseIDs *[]uuid.UUID `json:"warehouse_ids,omitempty"`
}
