package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/enums"
)

func TestListOrdersParsesFilter(t *testing.T) {
	svc := &stubOrders{}
	warehouseID := uuid.New()
	handler := ListOrders(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=preparing&warehouse_id="+warehouseID.String()+"&from=2026-03-01&to=2026-03-31&search=1042", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	f := svc.lastFilter
	if f.Status == nil || *f.Status != enums.OrderStatusPreparing {
		t.Fatalf("unexpected status %v", f.Status)
	}
	if f.WarehouseID == nil || *f.WarehouseID != warehouseID {
		t.Fatalf("unexpected warehouse %v", f.WarehouseID)
	}
	if f.From == nil || !f.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %v", f.From)
	}
	// The end date is inclusive, so the bound moves to the next midnight.
	if f.To == nil || !f.To.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected to %v", f.To)
	}
	if f.Search != "1042" {
		t.Fatalf("unexpected search %q", f.Search)
	}
}

func TestListOrdersRejectsBadQuery(t *testing.T) {
	cases := map[string]string{
		"status":    "/api/v1/orders?status=lost",
		"warehouse": "/api/v1/orders?warehouse_id=abc",
		"range":     "/api/v1/orders?from=2026-03-10&to=2026-03-01",
		"page size": "/api/v1/orders?pageSize=1000",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubOrders{}
			resp := httptest.NewRecorder()
			ListOrders(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
			if svc.calls() != 0 {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := &stubOrders{}
	handler := UpdateOrderStatus(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/x/status", jsonBody(`{"status":"on_the_way"}`))
	req = withURLParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus != enums.OrderStatusOnTheWay {
		t.Fatalf("unexpected status %q", svc.lastStatus)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrders{}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/x/status", jsonBody(`{"status":"teleported"}`))
	req = withURLParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	UpdateOrderStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastStatus != "" {
		t.Fatalf("service must not be called")
	}
}

func TestGetOrderRejectsBadID(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/orders/nope", nil), "orderId", "nope")
	resp := httptest.NewRecorder()
	GetOrder(&stubOrders{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersWithoutServiceReturnInternalError(t *testing.T) {
	resp := httptest.NewRecorder()
	ListOrders(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
