package shared

import (
	"log/slog"
	"net"
	"net/http"

	"kra360/internal/domain/audit"
	"kra360/internal/requestctx"
)

// Audit records a completed mutation. Failures are logged and never
// change the response.
func Audit(r *http.Request, trail *audit.Service, action, entityType, entityID string, after any) {
	if !trail.Enabled() {
		return
	}
	entry := audit.Entry{
		ActorID:    requestctx.GetViewerID(r.Context()),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestctx.GetRequestID(r.Context()),
		IP:         clientIP(r),
		After:      after,
	}
	if err := trail.Record(r.Context(), entry); err != nil {
		slog.Warn("audit record failed", "action", action, "entity", entityID, "err", err)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
