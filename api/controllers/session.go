package controllers

import (
	"net/http"

	"github.com/llanero/admin-backend/api/middleware"
	"github.com/llanero/admin-backend/api/responses"
)

// Me echoes the caller identity the auth middleware resolved. The dashboard
// uses it to pick the screens for the role.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"user_id":     middleware.UserIDFromContext(r.Context()),
			"role":        middleware.RoleFromContext(r.Context()),
			"open_access": middleware.OpenAccess(r.Context()),
		}
		responses.WriteSuccess(w, payload)
	}
}
