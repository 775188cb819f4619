package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

type fakeRepository struct {
	listFn        func(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Notification], error)
	markReadFn    func(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, filter ListFilter, now time.Time) (int64, error)
	deleteFn      func(ctx context.Context, cutoff time.Time) (int64, error)
	created       []*models.Notification
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeRepository) CreateForOrder(ctx context.Context, notification *models.Notification) (bool, error) {
	if exists, _ := f.ExistsForOrder(ctx, *notification.OrderID, notification.Type); exists {
		return false, nil
	}
	f.created = append(f.created, notification)
	return true, nil
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Notification], error) {
	if f.listFn != nil {
		return f.listFn(ctx, params, filter)
	}
	return pagination.Empty[models.Notification](params), nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, filter ListFilter, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, filter, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, cutoff)
	}
	return 0, nil
}

func (f *fakeRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID, typ enums.NotificationType) (bool, error) {
	for _, n := range f.created {
		if n.OrderID != nil && *n.OrderID == orderID && n.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	readAt := time.Now().UTC()
	rows := []models.Notification{
		{ID: uuid.New(), Title: "Nuevo pedido #7", Type: enums.NotificationTypeNewOrder},
		{ID: uuid.New(), Title: "Pedido #6", Type: enums.NotificationTypeOrderStatus, ReadAt: &readAt},
	}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Notification], error) {
			if !filter.UnreadOnly {
				t.Fatal("expected unread filter to reach the repository")
			}
			return pagination.NewPage(rows, 12, params), nil
		},
	}

	svc := newServiceWithRepo(repo)
	page, err := svc.List(context.Background(), pagination.Params{Page: 1, PageSize: 2}, ListFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(page.Data) != 2 || page.TotalPages != 6 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Data[0].IsRead || !page.Data[1].IsRead {
		t.Fatalf("read flags not mapped: %+v", page.Data)
	}
}

func TestService_ListNotificationsBackendError(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[models.Notification], error) {
			return pagination.Page[models.Notification]{}, errors.New("connection refused")
		},
	}
	_, err := newServiceWithRepo(repo).List(context.Background(), pagination.Params{}, ListFilter{})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %s", code)
	}
}

func TestService_MarkRead(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: true, Updated: true}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected mark read error: %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected not found error")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_MarkReadRequiresID(t *testing.T) {
	err := newServiceWithRepo(&fakeRepository{}).MarkRead(context.Background(), uuid.Nil)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, filter ListFilter, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	svc := newServiceWithRepo(repo)
	count, err := svc.MarkAllRead(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("unexpected mark all read error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated rows, got %d", count)
	}
}

func TestService_MarkAllReadError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, filter ListFilter, now time.Time) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(repo)
	if _, err := svc.MarkAllRead(context.Background(), ListFilter{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_DeleteOlderThanUsesRetention(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 5, nil
		},
	}
	svc := &service{repo: repo, now: func() time.Time { return now }}

	n, err := svc.DeleteOlderThan(context.Background(), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 deleted, got %d", n)
	}
	if want := now.AddDate(0, 0, -30); !gotCutoff.Equal(want) {
		t.Fatalf("expected cutoff %v got %v", want, gotCutoff)
	}

	if _, err := svc.DeleteOlderThan(context.Background(), 0); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero retention, got %v", err)
	}
}

func TestService_CreateDefaultsToSystem(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(repo)

	dto, err := svc.Create(context.Background(), CreateInput{Title: " Mantenimiento ", Message: "El sistema se reinicia a las 2am"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if dto.Type != enums.NotificationTypeSystem || dto.Title != "Mantenimiento" {
		t.Fatalf("unexpected notification %+v", dto)
	}

	if _, err := svc.Create(context.Background(), CreateInput{Title: "x"}); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
