package reportshandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"kra360/internal/domain/auth"
	"kra360/internal/reports"
	"kra360/internal/transport/http/api"
	"kra360/internal/transport/http/middleware"
	"kra360/internal/transport/http/shared"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/goals.pdf", h.handleGoalReportPDF)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	dashboard, err := svc.Dashboard(r.Context())
	if err != nil {
		shared.WriteError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGoalReportPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	svc, ok := shared.Views(w, r)
	if !ok {
		return
	}
	report, err := svc.GoalReport(r.Context(), strings.TrimSpace(r.URL.Query().Get("employeeId")))
	if err != nil {
		shared.WriteError(w, err, requestID)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteGoalReportPDF(&buf, report); err != nil {
		slog.Error("goal report render failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(report.EmployeeName)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func reportFilename(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return unicode.ToLower(r)
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, strings.TrimSpace(name))
	if slug == "" {
		slug = "goals"
	}
	return slug + "-goal-report.pdf"
}
