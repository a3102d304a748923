package audit

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execRecorder struct {
	sql  string
	args []any
}

func (e *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql = sql
	e.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (e *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (e *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not used")
}

func TestRecordMarshalsResult(t *testing.T) {
	db := &execRecorder{}
	svc := New(db)
	err := svc.Record(context.Background(), Entry{
		ActorID:    "m-1",
		Action:     ActionDueDateDecide,
		EntityType: EntityDueDateRequest,
		EntityID:   "r-1",
		RequestID:  "req-1",
		After:      map[string]string{"status": "APPROVED"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.Contains(db.sql, "INSERT INTO audit_events") {
		t.Fatalf("unexpected sql: %s", db.sql)
	}
	if db.args[0] != "m-1" || db.args[1] != ActionDueDateDecide || db.args[3] != "r-1" {
		t.Fatalf("unexpected args: %v", db.args)
	}
	var after map[string]string
	if err := json.Unmarshal(db.args[6].([]byte), &after); err != nil || after["status"] != "APPROVED" {
		t.Fatalf("unexpected after payload: %v %v", after, err)
	}
}

func TestNilServiceRecordsNothing(t *testing.T) {
	var svc *Service
	if svc.Enabled() {
		t.Fatal("nil service should be disabled")
	}
	if err := svc.Record(context.Background(), Entry{Action: ActionSyncRun}); err != nil {
		t.Fatalf("record on nil service: %v", err)
	}
}

func TestBuildBaseQueryNumbersPlaceholders(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{EntityType: EntityGoal, ActorID: "e-1"})
	if !strings.Contains(query, "entity_type = $1") || !strings.Contains(query, "actor_id = $2") {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != EntityGoal || args[1] != "e-1" {
		t.Fatalf("unexpected args: %v", args)
	}

	query, args = buildBaseQuery("SELECT 1", Filter{})
	if strings.Contains(query, "$") || len(args) != 0 {
		t.Fatalf("empty filter should add no conditions: %s %v", query, args)
	}
}
