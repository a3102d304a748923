package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kra360/internal/domain/audit"
	"kra360/internal/requestctx"
)

type auditDB struct {
	args []any
}

func (a *auditDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	a.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (a *auditDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (a *auditDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestAuditRecordsViewerAndRequest(t *testing.T) {
	db := &auditDB{}
	req := httptest.NewRequest(http.MethodPatch, "/goals/g-1", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	ctx := requestctx.WithRequestID(req.Context(), "req-9")
	requestctx.SetViewerID(ctx, "m-1")
	req = req.WithContext(ctx)

	Audit(req, audit.New(db), audit.ActionGoalUpdate, audit.EntityGoal, "g-1", nil)

	if len(db.args) != 7 {
		t.Fatalf("expected an insert, got %v", db.args)
	}
	if db.args[0] != "m-1" || db.args[3] != "g-1" || db.args[4] != "req-9" || db.args[5] != "10.0.0.7" {
		t.Fatalf("unexpected audit args: %v", db.args)
	}
}

func TestAuditWithoutTrail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	Audit(req, nil, audit.ActionFeedbackSubmit, audit.EntityFeedback, "f-1", nil)
}
