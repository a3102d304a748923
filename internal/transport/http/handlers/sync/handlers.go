package synchandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kra360/internal/domain/audit"
	"kra360/internal/domain/auth"
	"kra360/internal/transport/http/api"
	"kra360/internal/transport/http/middleware"
	"kra360/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(trail *audit.Service) *Handler {
	return &Handler{Audit: trail}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sync", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSyncRead)).Get("/", h.handleStatus)
		r.With(middleware.RequirePermission(auth.PermSyncRun)).Post("/{syncType}", h.handleRun)
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	status, err := svc.SyncStatus(r.Context())
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, status, middleware.GetRequestID(r.Context()))
}

// handleRun triggers one sync and answers with the run and the refreshed
// history.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	syncType := chi.URLParam(r, "syncType")
	result, err := svc.RunSync(r.Context(), syncType)
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	shared.Audit(r, h.Audit, audit.ActionSyncRun, audit.EntitySync, syncType, result.Run)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
