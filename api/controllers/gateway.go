package controllers

import (
	"net/http"

	"github.com/llanero/admin-backend/api/middleware"
	"github.com/llanero/admin-backend/api/responses"
	"github.com/llanero/admin-backend/api/validators"
	"github.com/llanero/admin-backend/internal/gateway"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/logger"
)

// A nil gateway means the service-role key is not configured.
func gatewayMissing(w http.ResponseWriter, r *http.Request, logg *logger.Logger, svc gateway.Service) bool {
	if svc != nil {
		return false
	}
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "auth provider admin access is not configured"))
	return true
}

// InviteMember handles POST /api/team and POST /api/delivery. The body is
// validated before the provider is contacted.
func InviteMember(svc gateway.Service, audience gateway.Audience, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input gateway.InviteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if gatewayMissing(w, r, logg, svc) {
			return
		}
		dto, err := svc.Invite(r.Context(), audience, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// DeleteMember handles DELETE /api/team and DELETE /api/delivery.
func DeleteMember(svc gateway.Service, audience gateway.Audience, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input gateway.DeleteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if gatewayMissing(w, r, logg, svc) {
			return
		}
		if err := svc.Delete(r.Context(), audience, middleware.ActorID(r.Context()), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true, "user_id": input.UserID})
	}
}
