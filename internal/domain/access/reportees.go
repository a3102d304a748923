package access

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
)

// ReporteeLoader fetches the direct reportees of an employee.
type ReporteeLoader interface {
	ListReportees(ctx context.Context, employeeID string) ([]performance.Employee, error)
}

// ReporteeSet is an immutable set of employee ids.
type ReporteeSet struct {
	ids map[string]struct{}
}

func NewReporteeSet(ids ...string) ReporteeSet {
	set := ReporteeSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		set.ids[id] = struct{}{}
	}
	return set
}

// ReporteeSetFromEmployees keys each employee by whichever id field is set.
func ReporteeSetFromEmployees(employees []performance.Employee) ReporteeSet {
	ids := make([]string, 0, len(employees))
	for _, employee := range employees {
		ids = append(ids, employee.Key())
	}
	return NewReporteeSet(ids...)
}

func (s ReporteeSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s ReporteeSet) Len() int {
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s ReporteeSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadReportees fetches the viewer's direct reportees. Employees get the
// empty set without a fetch. A failed fetch also yields the empty set.
func LoadReportees(ctx context.Context, loader ReporteeLoader, viewer auth.Identity) ([]performance.Employee, ReporteeSet) {
	if viewer.ID == "" || viewer.Role == auth.RoleEmployee || loader == nil {
		return nil, NewReporteeSet()
	}
	reportees, err := loader.ListReportees(ctx, viewer.ID)
	if err != nil {
		slog.Warn("reportee fetch failed", "viewer", viewer.ID, "err", err)
		return nil, NewReporteeSet()
	}
	return reportees, ReporteeSetFromEmployees(reportees)
}

// IndirectReportees lists the reportees of each direct reportee, one level
// deep. It is a display helper and is never used to grant access.
func IndirectReportees(ctx context.Context, loader ReporteeLoader, direct []performance.Employee) []performance.Employee {
	var (
		mu      sync.Mutex
		results = make(map[string][]performance.Employee, len(direct))
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, employee := range direct {
		id := employee.Key()
		if id == "" {
			continue
		}
		group.Go(func() error {
			reportees, err := loader.ListReportees(groupCtx, id)
			if err != nil {
				slog.Debug("indirect reportee fetch failed", "manager", id, "err", err)
				return nil
			}
			mu.Lock()
			results[id] = reportees
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	seen := make(map[string]struct{}, len(direct))
	for _, employee := range direct {
		seen[employee.Key()] = struct{}{}
	}
	out := make([]performance.Employee, 0)
	for _, employee := range direct {
		for _, reportee := range results[employee.Key()] {
			key := reportee.Key()
			if _, ok := seen[key]; ok || key == "" {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, reportee)
		}
	}
	return out
}
