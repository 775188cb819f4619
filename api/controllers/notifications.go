package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/api/middleware"
	"github.com/llanero/admin-backend/api/responses"
	"github.com/llanero/admin-backend/api/validators"
	"github.com/llanero/admin-backend/internal/notifications"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/logger"
)

// parseNotificationFilter reads unread, warehouse_id and type. Authenticated
// callers only see broadcasts and notifications addressed to them.
func parseNotificationFilter(r *http.Request) (notifications.ListFilter, error) {
	var filter notifications.ListFilter
	unread, err := validators.ParseQueryBool(r, "unread")
	if err != nil {
		return filter, err
	}
	filter.UnreadOnly = unread != nil && *unread
	if filter.WarehouseID, err = validators.ParseQueryUUID(r, "warehouse_id"); err != nil {
		return filter, err
	}
	if raw := validators.ParseQueryString(r, "type", 32); raw != "" {
		typ, parseErr := enums.ParseNotificationType(raw)
		if parseErr != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid type")
		}
		filter.Type = &typ
	}
	if actor := middleware.ActorID(r.Context()); actor != uuid.Nil {
		filter.RecipientID = &actor
	}
	return filter, nil
}

func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "notifications") {
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := parseNotificationFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func CreateNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "notifications") {
			return
		}
		var input notifications.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "notifications") {
			return
		}
		id, err := parseIDParam(r, "notificationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.MarkRead(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"read": true})
	}
}

// MarkAllNotificationsRead applies the same filters as the list.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "notifications") {
			return
		}
		filter, err := parseNotificationFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.MarkAllRead(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
