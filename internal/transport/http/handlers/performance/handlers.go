package performancehandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"kra360/internal/domain/audit"
	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
	"kra360/internal/transport/http/api"
	"kra360/internal/transport/http/middleware"
	"kra360/internal/transport/http/shared"
	"kra360/internal/validation"
	"kra360/internal/view"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(trail *audit.Service) *Handler {
	return &Handler{Audit: trail}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermGoalsRead)).Get("/goals", h.handleGoalBoard)
	r.With(middleware.RequirePermission(auth.PermGoalsWrite)).Post("/goals", h.handleCreateGoal)
	r.With(middleware.RequirePermission(auth.PermGoalsWrite)).Patch("/goals/{goalID}", h.handleUpdateGoal)
	r.With(middleware.RequirePermission(auth.PermFeedbackRead)).Get("/goals/{goalID}/feedback", h.handleGoalFeedback)
	r.With(middleware.RequirePermission(auth.PermDueDateRequest)).Post("/goals/{goalID}/due-date-requests", h.handleRequestDueDate)
	r.With(middleware.RequirePermission(auth.PermFeedbackRead)).Get("/feedback", h.handleFeedbackCenter)
	r.With(middleware.RequirePermission(auth.PermFeedbackWrite)).Post("/feedback", h.handleSubmitFeedback)
	r.With(middleware.RequirePermission(auth.PermTeamRead)).Get("/team", h.handleTeamBoard)
	r.With(middleware.RequirePermission(auth.PermDirectoryRead)).Get("/employees", h.handleDirectory)
	r.With(middleware.RequirePermission(auth.PermDueDateRequest)).Get("/due-date-requests", h.handlePendingRequests)
	r.With(middleware.RequirePermission(auth.PermDueDateApprove)).Patch("/due-date-requests/{requestID}", h.handleDecideRequest)
}

type updateGoalRequest struct {
	OwnerID string `json:"ownerId"`
	performance.UpdateGoalInput
}

type feedbackRequest struct {
	RecipientID string `json:"recipientId"`
	performance.FeedbackInput
}

type decisionRequest struct {
	Approved *bool `json:"approved"`
}

type dueDateRequest struct {
	OwnerID         string `json:"ownerId"`
	CurrentDueDate  string `json:"currentDueDate"`
	ProposedDueDate string `json:"proposedDueDate"`
	Reason          string `json:"reason"`
}

func (h *Handler) handleGoalBoard(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	board, err := svc.GoalBoard(r.Context(), strings.TrimSpace(r.URL.Query().Get("employeeId")))
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, board, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	var payload performance.CreateGoalInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	goal, err := svc.CreateGoal(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionGoalCreate, audit.EntityGoal, goal.ID, goal)
	api.Created(w, goal, requestID)
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	var payload updateGoalRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	ownerID := strings.TrimSpace(payload.OwnerID)
	if ownerID == "" {
		ownerID = svc.Viewer().ID
	}
	goalID := chi.URLParam(r, "goalID")
	goal, err := svc.UpdateGoal(r.Context(), ownerID, goalID, payload.UpdateGoalInput)
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionGoalUpdate, audit.EntityGoal, goalID, goal)
	api.Success(w, goal, requestID)
}

func (h *Handler) handleGoalFeedback(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	feedback, err := svc.GoalFeedback(r.Context(), chi.URLParam(r, "goalID"))
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, feedback, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequestDueDate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	var payload dueDateRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	ownerID := strings.TrimSpace(payload.OwnerID)
	if ownerID == "" {
		ownerID = svc.Viewer().ID
	}
	created, err := svc.RequestDueDateChange(r.Context(), ownerID, performance.DueDateChangeInput{
		GoalID:          chi.URLParam(r, "goalID"),
		CurrentDueDate:  payload.CurrentDueDate,
		ProposedDueDate: payload.ProposedDueDate,
		Reason:          payload.Reason,
	})
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDueDateRequest, audit.EntityDueDateRequest, created.ID, created)
	api.Created(w, created, requestID)
}

func (h *Handler) handleFeedbackCenter(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	center, err := svc.FeedbackCenter(r.Context())
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, center, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	var payload feedbackRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Required("recipientId", payload.RecipientID, "is required")
	if validator.Reject(w, requestID) {
		return
	}
	feedback, err := svc.SubmitFeedback(r.Context(), strings.TrimSpace(payload.RecipientID), payload.FeedbackInput)
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionFeedbackSubmit, audit.EntityFeedback, feedback.ID, feedback)
	api.Created(w, feedback, requestID)
}

func (h *Handler) handleTeamBoard(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	team, err := svc.TeamBoard(r.Context())
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, team, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	validator := shared.NewValidator()
	validator.Enum("role", query.Get("role"), []string{string(auth.RoleHR), string(auth.RoleManager), string(auth.RoleEmployee)}, "must be one of: hr manager employee")
	if validator.Reject(w, requestID) {
		return
	}
	filter := view.DirectoryFilter{
		Search: strings.TrimSpace(query.Get("search")),
		Page:   shared.ParsePage(r),
	}
	if role, ok := auth.ParseRole(query.Get("role")); ok {
		filter.Role = role
	}
	directory, err := svc.Directory(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	api.Success(w, directory, requestID)
}

func (h *Handler) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	pending, err := svc.PendingRequests(r.Context())
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, pending, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDecideRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	var payload decisionRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	if payload.Approved == nil {
		shared.FailValidation(w, requestID, []validation.Issue{{Field: "approved", Reason: "is required"}})
		return
	}
	decisionID := chi.URLParam(r, "requestID")
	decided, err := svc.DecideDueDateRequest(r.Context(), decisionID, *payload.Approved)
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDueDateDecide, audit.EntityDueDateRequest, decisionID, decided)
	api.Success(w, decided, requestID)
}
