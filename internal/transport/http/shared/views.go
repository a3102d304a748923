package shared

import (
	"net/http"

	"kra360/internal/transport/http/api"
	"kra360/internal/transport/http/middleware"
	"kra360/internal/view"
)

// Views returns the signed-in viewer's view service or writes 401.
func Views(w http.ResponseWriter, r *http.Request) (*view.Service, bool) {
	svc, ok := middleware.GetViews(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	return svc, true
}
