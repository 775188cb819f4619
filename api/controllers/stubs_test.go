package controllers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/llanero/admin-backend/internal/gateway"
	"github.com/llanero/admin-backend/internal/members"
	"github.com/llanero/admin-backend/internal/notifications"
	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/internal/reports"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/pagination"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

type stubOrders struct {
	mu         sync.Mutex
	listCalls  int
	lastFilter orders.ListFilter
	lastStatus enums.OrderStatus
	rows       []orders.OrderDTO
	err        error
}

func (s *stubOrders) List(ctx context.Context, params pagination.Params, filter orders.ListFilter) (pagination.Page[orders.OrderDTO], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.lastFilter = filter
	if s.err != nil {
		return pagination.Page[orders.OrderDTO]{}, s.err
	}
	return pagination.NewPage(s.rows, int64(len(s.rows)), params), nil
}

func (s *stubOrders) Get(ctx context.Context, id uuid.UUID) (*orders.OrderDetailDTO, error) {
	return &orders.OrderDetailDTO{}, nil
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*orders.OrderDetailDTO, error) {
	s.mu.Lock()
	s.lastStatus = status
	s.mu.Unlock()
	return &orders.OrderDetailDTO{}, nil
}

func (s *stubOrders) AssignDelivery(ctx context.Context, id, memberID uuid.UUID) (*orders.OrderDetailDTO, error) {
	return &orders.OrderDetailDTO{}, nil
}

func (s *stubOrders) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

type stubNotifications struct {
	lastFilter notifications.ListFilter
	updated    int64
}

func (s *stubNotifications) List(ctx context.Context, params pagination.Params, filter notifications.ListFilter) (pagination.Page[notifications.NotificationDTO], error) {
	s.lastFilter = filter
	return pagination.Empty[notifications.NotificationDTO](params), nil
}

func (s *stubNotifications) Create(ctx context.Context, input notifications.CreateInput) (*notifications.NotificationDTO, error) {
	return &notifications.NotificationDTO{ID: uuid.New()}, nil
}

func (s *stubNotifications) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	return nil
}

func (s *stubNotifications) MarkAllRead(ctx context.Context, filter notifications.ListFilter) (int64, error) {
	s.lastFilter = filter
	return s.updated, nil
}

func (s *stubNotifications) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	return 0, nil
}

type stubReports struct {
	lastFilter reports.Filter
	body       []byte
}

func (s *stubReports) Summary(ctx context.Context, filter reports.Filter) (*reports.Summary, error) {
	s.lastFilter = filter
	return &reports.Summary{From: filter.From, To: filter.To}, nil
}

func (s *stubReports) Export(ctx context.Context, filter reports.Filter) ([]byte, error) {
	s.lastFilter = filter
	return s.body, nil
}

type stubGateway struct {
	invites []gateway.InviteInput
	deletes []gateway.DeleteInput
	actor   uuid.UUID
}

func (s *stubGateway) Invite(ctx context.Context, audience gateway.Audience, input gateway.InviteInput) (*members.MemberDTO, error) {
	s.invites = append(s.invites, input)
	return &members.MemberDTO{ID: uuid.New(), Email: input.Email, FullName: input.FullName}, nil
}

func (s *stubGateway) Delete(ctx context.Context, audience gateway.Audience, actorID uuid.UUID, input gateway.DeleteInput) error {
	s.deletes = append(s.deletes, input)
	s.actor = actorID
	return nil
}
