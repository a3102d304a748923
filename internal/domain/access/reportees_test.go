package access

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
)

type fakeLoader struct {
	reportees map[string][]performance.Employee
	err       error
	calls     atomic.Int32
}

func (f *fakeLoader) ListReportees(_ context.Context, employeeID string) ([]performance.Employee, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.reportees[employeeID], nil
}

func TestLoadReporteesFailsClosed(t *testing.T) {
	loader := &fakeLoader{err: errors.New("backend down")}
	manager := viewer("mgr", auth.RoleManager)
	_, set := LoadReportees(context.Background(), loader, manager)
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.IDs())
	}
	policy := NewPolicy(manager, set)
	for _, target := range []string{"rep-1", "rep-2", "anyone"} {
		if policy.CanEdit(target) {
			t.Fatalf("expected no edit on %s after failed reportee fetch", target)
		}
	}
	if !policy.CanEdit("mgr") {
		t.Fatal("self should stay editable")
	}
}

func TestLoadReporteesUsesEitherIDField(t *testing.T) {
	loader := &fakeLoader{reportees: map[string][]performance.Employee{
		"mgr": {{MongoID: "a"}, {ID: "b"}, {}},
	}}
	list, set := LoadReportees(context.Background(), loader, viewer("mgr", auth.RoleManager))
	if len(list) != 3 {
		t.Fatalf("expected raw list of 3, got %d", len(list))
	}
	if ids := set.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestLoadReporteesSkipsEmployees(t *testing.T) {
	loader := &fakeLoader{}
	_, set := LoadReportees(context.Background(), loader, viewer("me", auth.RoleEmployee))
	if set.Len() != 0 || loader.calls.Load() != 0 {
		t.Fatalf("expected no fetch for employees, calls=%d", loader.calls.Load())
	}
}

func TestIndirectReporteesFlattensOneLevel(t *testing.T) {
	loader := &fakeLoader{reportees: map[string][]performance.Employee{
		"lead-1": {{ID: "dev-1"}, {ID: "dev-2"}},
		"lead-2": {{ID: "dev-2"}, {ID: "lead-1"}},
		"dev-1":  {{ID: "intern-1"}},
	}}
	direct := []performance.Employee{{ID: "lead-1"}, {ID: "lead-2"}}
	indirect := IndirectReportees(context.Background(), loader, direct)
	if len(indirect) != 2 {
		t.Fatalf("expected 2 indirect reportees, got %+v", indirect)
	}
	if indirect[0].ID != "dev-1" || indirect[1].ID != "dev-2" {
		t.Fatalf("unexpected order: %+v", indirect)
	}
}
