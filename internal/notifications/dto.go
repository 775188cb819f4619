package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
)

// ListFilter narrows the notification feed. Every field is optional.
type ListFilter struct {
	UnreadOnly  bool
	WarehouseID *uuid.UUID
	RecipientID *uuid.UUID
	Type        *enums.NotificationType
}

type NotificationDTO struct {
	ID          uuid.UUID              `json:"id"`
	RecipientID *uuid.UUID             `json:"recipient_id,omitempty"`
	WarehouseID *uuid.UUID             `json:"warehouse_id,omitempty"`
	OrderID     *uuid.UUID             `json:"order_id,omitempty"`
	Type        enums.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Link        *string                `json:"link,omitempty"`
	IsRead      bool                   `json:"is_read"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func FromModel(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		WarehouseID: n.WarehouseID,
		OrderID:     n.OrderID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		IsRead:      n.ReadAt != nil,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// CreateInput is a system notification written by staff or jobs.
type CreateInput struct {
	RecipientID *uuid.UUID             `json:"recipient_id"`
	WarehouseID *uuid.UUID             `json:"warehouse_id"`
	Type        enums.NotificationType `json:"type"`
	Title       string                 `json:"title" validate:"required,max=120"`
	Message     string                 `json:"message" validate:"required,max=500"`
	Link        *string                `json:"link"`
}
