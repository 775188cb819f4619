package gateway

import (
	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/enums"
)

// InviteInput is the body of POST /api/team and POST /api/delivery. A password
// creates a confirmed identity; without one the provider emails an invitation.
type InviteInput struct {
	Email        string         `json:"email" validate:"required,email,max=254"`
	FullName     string         `json:"full_name" validate:"required,max=120"`
	Phone        string         `json:"phone" validate:"omitempty,max=32,ve_phone"`
	IDNumber     string         `json:"id_number" validate:"omitempty,max=32,ve_id"`
	Password     string         `json:"password" validate:"omitempty,min=8,max=72"`
	Role         enums.UserRole `json:"role" validate:"omitempty"`
	WarehouseIDs []uuid.UUID    `json:"warehouse_ids"`
	VehicleType  string         `json:"vehicle_type" validate:"omitempty,max=40"`
	VehiclePlate string         `json:"vehicle_plate" validate:"omitempty,max=16"`
}

// DeleteInput is the body of DELETE /api/team and DELETE /api/delivery.
type DeleteInput struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// Audience is the member kind a route provisions.
type Audience string

const (
	AudienceTeam     Audience = "team"
	AudienceDelivery Audience = "delivery"
)

// roles lists which profile roles each audience may create or delete.
func (a Audience) roles() []enums.UserRole {
	switch a {
	case AudienceTeam:
		return []enums.UserRole{enums.UserRoleTeam, enums.UserRoleAdmin}
	case AudienceDelivery:
		return []enums.UserRole{enums.UserRoleDelivery}
	default:
		return nil
	}
}

func (a Audience) allows(role enums.UserRole) bool {
	for _, r := range a.roles() {
		if r == role {
			return true
		}
	}
	return false
}
