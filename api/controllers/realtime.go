package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/llanero/admin-backend/api/responses"
	"github.com/llanero/admin-backend/api/validators"
	"github.com/llanero/admin-backend/internal/listview"
	"github.com/llanero/admin-backend/internal/notifications"
	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/internal/realtime"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/pagination"
)

const (
	eventPage      = "page"
	eventAlert     = "alert"
	eventHeartbeat = "heartbeat"

	streamBuffer = 16
)

// StreamConfig carries the shared dependencies of the realtime endpoints.
type StreamConfig struct {
	Hub       *realtime.Hub
	Heartbeat time.Duration
	Logger    *logger.Logger
}

type sseEvent struct {
	name string
	data any
}

type pageEvent[T any] struct {
	State listview.State     `json:"state"`
	Page  pagination.Page[T] `json:"page"`
	Error string             `json:"error,omitempty"`
}

type streamSpec[T any, F any] struct {
	table  string
	filter realtime.Filter
	alert  realtime.AlertBuilder
	view   *listview.View[T, F]
}

// StreamOrders pushes the orders page and new-order alerts. Query: the orders
// list filters plus page and pageSize; warehouse_id also scopes the alerts.
func StreamOrders(svc orders.Service, cfg StreamConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, cfg.Logger, svc, "orders") {
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), cfg.Logger, w, err)
			return
		}
		filter, err := parseOrderFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), cfg.Logger, w, err)
			return
		}

		view := listview.New[orders.OrderDTO, orders.ListFilter](svc.List, func(o orders.OrderDTO) string { return o.ID.String() },
			listview.WithPageSize[orders.OrderDTO, orders.ListFilter](params.PageSize),
			listview.WithFilter[orders.OrderDTO, orders.ListFilter](filter),
		)
		spec := streamSpec[orders.OrderDTO, orders.ListFilter]{
			table: realtime.TableOrders,
			alert: realtime.OrderAlert,
			view:  view,
		}
		if filter.WarehouseID != nil {
			spec.filter = realtime.MatchField("warehouse_id", filter.WarehouseID.String())
		}
		serveStream(w, r, cfg, params.Page, spec)
	}
}

// StreamNotifications pushes the notifications page and plays the chime on
// every new notification. Query: the notifications list filters.
func StreamNotifications(svc notifications.Service, cfg StreamConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, cfg.Logger, svc, "notifications") {
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), cfg.Logger, w, err)
			return
		}
		filter, err := parseNotificationFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), cfg.Logger, w, err)
			return
		}

		view := listview.New[notifications.NotificationDTO, notifications.ListFilter](svc.List, func(n notifications.NotificationDTO) string { return n.ID.String() },
			listview.WithPageSize[notifications.NotificationDTO, notifications.ListFilter](params.PageSize),
			listview.WithFilter[notifications.NotificationDTO, notifications.ListFilter](filter),
		)
		spec := streamSpec[notifications.NotificationDTO, notifications.ListFilter]{
			table: realtime.TableNotifications,
			alert: realtime.NotificationAlert,
			view:  view,
		}
		if filter.WarehouseID != nil {
			spec.filter = realtime.MatchField("warehouse_id", filter.WarehouseID.String())
		}
		serveStream(w, r, cfg, params.Page, spec)
	}
}

// serveStream loads the first page, then relays refetched pages and alerts
// until the client disconnects. Writes happen only on the request goroutine.
func serveStream[T any, F any](w http.ResponseWriter, r *http.Request, cfg StreamConfig, page int, spec streamSpec[T, F]) {
	ctx := r.Context()
	if cfg.Hub == nil {
		responses.WriteError(ctx, cfg.Logger, w, pkgerrors.New(pkgerrors.CodeDependency, "realtime feed unavailable"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		responses.WriteError(ctx, cfg.Logger, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
		return
	}

	out := make(chan sseEvent, streamBuffer)
	// stop releases a channel goroutine blocked on a full buffer once the
	// writer loop has returned.
	stop := make(chan struct{})
	emit := func(evt sseEvent) {
		select {
		case out <- evt:
		case <-ctx.Done():
		case <-stop:
		}
	}
	emitPage := func() {
		snap := spec.view.Snapshot()
		payload := pageEvent[T]{State: snap.State, Page: snap.Page}
		if snap.Err != nil {
			payload.Error = errorMessage(snap.Err)
		}
		emit(sseEvent{name: eventPage, data: payload})
	}

	// Backend failures travel in the first page event; bad input ends the request.
	if err := spec.view.SetPage(ctx, page); pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		responses.WriteError(ctx, cfg.Logger, w, err)
		return
	}

	ch, err := realtime.Open(ctx, cfg.Hub, realtime.ChannelConfig{
		Table:  spec.table,
		Filter: spec.filter,
		Refetch: func(ctx context.Context) error {
			err := spec.view.Refresh(ctx)
			if errors.Is(err, listview.ErrSuperseded) {
				return nil
			}
			emitPage()
			return err
		},
		Alert:  spec.alert,
		Sink:   func(a realtime.Alert) { emit(sseEvent{name: eventAlert, data: a}) },
		Logger: cfg.Logger,
	})
	if err != nil {
		responses.WriteError(ctx, cfg.Logger, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open realtime channel"))
		return
	}
	defer func() {
		close(stop)
		ch.Close()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	emitPage()

	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch.Done():
			return
		case <-ticker.C:
			if err := writeEvent(w, flusher, sseEvent{name: eventHeartbeat, data: map[string]time.Time{"at": time.Now().UTC()}}); err != nil {
				return
			}
		case evt := <-out:
			if err := writeEvent(w, flusher, evt); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn(cfg.Logger.WithField(ctx, "table", spec.table), "realtime stream write failed: "+err.Error())
				}
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, evt sseEvent) error {
	data, err := json.Marshal(evt.data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.name, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func errorMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return "unexpected error"
}
