package authhandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kra360/internal/domain/auth"
	"kra360/internal/transport/http/api"
	"kra360/internal/transport/http/middleware"
	"kra360/internal/transport/http/shared"
)

type Handler struct {
	Sessions       *middleware.Sessions
	SearchDebounce time.Duration
}

func NewHandler(sessions *middleware.Sessions, searchDebounce time.Duration) *Handler {
	return &Handler{Sessions: sessions, SearchDebounce: searchDebounce}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.With(middleware.RequireViewer).Get("/auth/me", h.HandleMe)
}

type loginRequest struct {
	ZohoUserID string `json:"zohoUserId"`
}

// meResponse carries the signed-in employee and the client settings a
// front end needs to render it.
type meResponse struct {
	User             auth.Identity `json:"user"`
	Permissions      []string      `json:"permissions"`
	SearchDebounceMs int64         `json:"searchDebounceMs"`
}

func (h *Handler) me(identity auth.Identity) meResponse {
	perms := auth.RolePermissions[identity.Role]
	if perms == nil {
		perms = []string{}
	}
	return meResponse{User: identity, Permissions: perms, SearchDebounceMs: h.SearchDebounce.Milliseconds()}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Required("zohoUserId", strings.TrimSpace(payload.ZohoUserID), "is required")
	if validator.Reject(w, requestID) {
		return
	}

	browser, err := h.Sessions.Start(w, r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", requestID)
		return
	}
	identity, err := browser.Store.Login(r.Context(), payload.ZohoUserID)
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	api.Success(w, h.me(identity), requestID)
}

// HandleLogout always succeeds, signed in or not.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if browser, ok := middleware.GetBrowser(r.Context()); ok {
		browser.Store.Logout(r.Context())
	}
	h.Sessions.End(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	api.Success(w, h.me(viewer), middleware.GetRequestID(r.Context()))
}
