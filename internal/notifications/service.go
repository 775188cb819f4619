package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service defines notification list/read operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[NotificationDTO], error)
	Create(ctx context.Context, input CreateInput) (*NotificationDTO, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, filter ListFilter) (int64, error)
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[NotificationDTO], error) {
	page, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return pagination.Page[NotificationDTO]{}, pkgerrors.Backend(err, "list notifications")
	}
	return pagination.Map(page, FromModel), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*NotificationDTO, error) {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}
	typ := input.Type
	if typ == "" {
		typ = enums.NotificationTypeSystem
	}
	if !typ.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification type %q", typ)
	}

	n := &models.Notification{
		RecipientID: input.RecipientID,
		WarehouseID: input.WarehouseID,
		Type:        typ,
		Title:       title,
		Message:     message,
		Link:        input.Link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, pkgerrors.Backend(err, "create notification")
	}
	dto := FromModel(*n)
	return &dto, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, notificationID, s.now())
	if err != nil {
		return pkgerrors.Backend(err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, filter ListFilter) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, filter, s.now())
	if err != nil {
		return 0, pkgerrors.Backend(err, "mark notifications read")
	}
	return count, nil
}

// DeleteOlderThan removes read notifications created before now-retention.
func (s *service) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	count, err := s.repo.DeleteReadBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, pkgerrors.Backend(err, "delete old notifications")
	}
	return count, nil
}
