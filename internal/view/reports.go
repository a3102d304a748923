package view

import (
	"context"

	"kra360/internal/apiclient"
	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
	"kra360/internal/reports"
)

// DashboardView holds the viewer role's headline counters. Each counter
// carries the state of the fetches it was computed from.
type DashboardView struct {
	Role     auth.Role                `json:"role"`
	Counters map[string]Loadable[int] `json:"counters"`
}

// Dashboard returns the role-specific headline counters. A failed fetch
// fails only the counters computed from it.
func (s *Service) Dashboard(ctx context.Context) (DashboardView, error) {
	if err := s.require(auth.PermReportsRead); err != nil {
		return DashboardView{}, err
	}
	var (
		kras      Loadable[performance.EmployeeKRAs]
		received  Loadable[[]performance.FeedbackCenterItem]
		approvals Loadable[[]performance.DueDateChangeRequest]
		reportees Loadable[[]performance.Employee]
		page      Loadable[performance.EmployeePage]
		history   Loadable[performance.SyncHistory]
	)
	composer := NewComposer(ctx)
	switch s.viewer.Role {
	case auth.RoleHR:
		FetchValue(composer, &page, func(ctx context.Context) (performance.EmployeePage, error) {
			return s.backend.ListEmployees(ctx, apiclient.DefaultEmployeeQuery())
		}, nil)
		Fetch(composer, &approvals, s.backend.ListDueDateRequests)
		FetchValue(composer, &history, s.backend.SyncHistory, nil)
	case auth.RoleManager:
		Fetch(composer, &approvals, s.backend.ListDueDateRequests)
		Fetch(composer, &reportees, func(ctx context.Context) ([]performance.Employee, error) {
			return s.backend.ListReportees(ctx, s.viewer.ID)
		})
	default:
		FetchValue(composer, &kras, func(ctx context.Context) (performance.EmployeeKRAs, error) {
			return s.backend.ListUserKRAs(ctx, s.viewer.ID)
		}, nil)
		Fetch(composer, &received, s.backend.FeedbackReceived)
	}
	if err := composer.Wait(); err != nil {
		return DashboardView{}, err
	}

	view := DashboardView{Role: s.viewer.Role}
	switch s.viewer.Role {
	case auth.RoleHR:
		employees := countOf(page, func(page performance.EmployeePage) int {
			if page.Metadata.Total > 0 {
				return page.Metadata.Total
			}
			return len(page.Employees)
		})
		syncRuns := countOf(history, func(history performance.SyncHistory) int { return history.Count })
		view.Counters = reports.HRDashboard(employees, countOf(approvals, pendingCount), syncRuns)
	case auth.RoleManager:
		teamGoals := countOf(reportees, func([]performance.Employee) int { return 0 })
		if reportees.IsLoaded() {
			var err error
			if teamGoals, err = s.teamGoals(ctx, reportees.Data); err != nil {
				return DashboardView{}, err
			}
		}
		teamSize := countOf(reportees, func(list []performance.Employee) int { return len(list) })
		view.Counters = reports.ManagerDashboard(countOf(approvals, pendingCount), teamSize, teamGoals)
	default:
		var summary Loadable[performance.BoardSummary]
		if data, err := kras.Result(); err != nil {
			summary = Failed[performance.BoardSummary](err)
		} else if goals, err := performance.MapEmployeeKRAs(data.KRAs, s.viewer.ID, s.now()); err != nil {
			summary = Failed[performance.BoardSummary](err)
		} else {
			summary = Loaded(performance.Summarize(goals, s.now()), len(goals) == 0)
		}
		goalCount := countOf(summary, func(summary performance.BoardSummary) int { return summary.GoalsTotal })
		avgProgress := countOf(summary, func(summary performance.BoardSummary) int { return summary.AvgProgress })
		feedbackCount := countOf(received, func(items []performance.FeedbackCenterItem) int { return len(items) })
		view.Counters = reports.EmployeeDashboard(goalCount, avgProgress, feedbackCount)
	}
	return view, nil
}

// teamGoals counts the goals of every reportee. One failed reportee
// fails the counter.
func (s *Service) teamGoals(ctx context.Context, reportees []performance.Employee) (Loadable[int], error) {
	slots := make([]Loadable[performance.EmployeeKRAs], len(reportees))
	composer := NewComposer(ctx)
	for i, reportee := range reportees {
		id := reportee.Key()
		FetchValue(composer, &slots[i], func(ctx context.Context) (performance.EmployeeKRAs, error) {
			return s.backend.ListUserKRAs(ctx, id)
		}, nil)
	}
	if err := composer.Wait(); err != nil {
		return Loadable[int]{}, err
	}
	total := 0
	for _, slot := range slots {
		data, err := slot.Result()
		if err != nil {
			return Failed[int](err), nil
		}
		for _, kra := range data.KRAs {
			total += len(kra.Goals)
		}
	}
	return Loaded(total, total == 0), nil
}

// countOf derives a counter from slot, keeping its loading or error state.
func countOf[T any](slot Loadable[T], count func(T) int) Loadable[int] {
	if !slot.IsLoaded() {
		return Loadable[int]{State: slot.State, Error: slot.Error}
	}
	n := count(slot.Data)
	return Loaded(n, n == 0)
}

func pendingCount(requests []performance.DueDateChangeRequest) int {
	n := 0
	for _, request := range requests {
		if request.Pending() {
			n++
		}
	}
	return n
}

// GoalReport builds the exportable goal report of targetID under the
// same access rules as GoalBoard.
func (s *Service) GoalReport(ctx context.Context, targetID string) (reports.GoalReport, error) {
	if err := s.require(auth.PermReportsRead); err != nil {
		return reports.GoalReport{}, err
	}
	board, err := s.GoalBoard(ctx, targetID)
	if err != nil {
		return reports.GoalReport{}, err
	}
	groups, err := board.KRAs.Result()
	if err != nil {
		return reports.GoalReport{}, err
	}
	report := reports.GoalReport{
		EmployeeName: board.Employee.Name,
		Designation:  board.Employee.Designation,
		Department:   board.Employee.Department,
		GeneratedAt:  s.now(),
		Summary:      board.Summary,
	}
	if report.EmployeeName == "" && board.TargetID == s.viewer.ID {
		report.EmployeeName = s.viewer.Name
	}
	for _, group := range groups {
		report.Goals = append(report.Goals, group.Goals...)
	}
	return report, nil
}
