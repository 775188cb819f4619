package controllers

import (
	"context"
	"net/http"

	"github.com/llanero/admin-backend/api/responses"
	"github.com/llanero/admin-backend/api/validators"
	"github.com/llanero/admin-backend/internal/members"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/pagination"
)

type deliveryStatusRequest struct {
	DeliveryStatus string `json:"delivery_status" validate:"required"`
}

type memberLister func(ctx context.Context, params pagination.Params, filter members.ListFilter) (pagination.Page[members.MemberDTO], error)

func parseMemberFilter(r *http.Request) (members.ListFilter, error) {
	var (
		filter members.ListFilter
		err    error
	)
	filter.Search = validators.ParseQueryString(r, "search", 120)
	if filter.WarehouseID, err = validators.ParseQueryUUID(r, "warehouse_id"); err != nil {
		return filter, err
	}
	if filter.IsActive, err = validators.ParseQueryBool(r, "active"); err != nil {
		return filter, err
	}
	if raw := validators.ParseQueryString(r, "delivery_status", 32); raw != "" {
		status, parseErr := enums.ParseDeliveryStatus(raw)
		if parseErr != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid delivery_status")
		}
		filter.DeliveryStatus = &status
	}
	return filter, nil
}

func listMembers(list memberLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := parseMemberFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := list(r.Context(), params, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListTeamMembers lists admin and team profiles.
func ListTeamMembers(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return func(w http.ResponseWriter, r *http.Request) { unavailable(w, r, logg, nil, "members") }
	}
	return listMembers(svc.ListTeam, logg)
}

// ListDeliveryMembers lists delivery profiles; delivery_status narrows the list.
func ListDeliveryMembers(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return func(w http.ResponseWriter, r *http.Request) { unavailable(w, r, logg, nil, "members") }
	}
	return listMembers(svc.ListDelivery, logg)
}

func GetMember(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "members") {
			return
		}
		id, err := parseIDParam(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UpdateMember(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "members") {
			return
		}
		id, err := parseIDParam(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input members.UpdateMemberInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func SetDeliveryStatus(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if unavailable(w, r, logg, svc, "members") {
			return
		}
		id, err := parseIDParam(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input deliveryStatusRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseDeliveryStatus(input.DeliveryStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery_status"))
			return
		}
		dto, err := svc.SetDeliveryStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
