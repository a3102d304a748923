package view

import (
	"context"
	"errors"
	"sync"

	"kra360/internal/apiclient"
	"kra360/internal/domain/performance"
)

var errBackend = errors.New("backend unavailable")

type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	employees    performance.EmployeePage
	employeesErr error
	lastQuery    apiclient.EmployeeQuery
	reportees    map[string][]performance.Employee
	reporteesErr error
	kras         map[string]performance.EmployeeKRAs
	krasErr      error
	received     []performance.FeedbackCenterItem
	given        []performance.FeedbackCenterItem
	givenErr     error
	goalFeedback []performance.Feedback
	toApprove    []performance.DueDateChangeRequest
	toApproveErr error
	mine         []performance.DueDateChangeRequest
	decision     performance.DueDateChangeRequest
	decisionErr  error
	history      performance.SyncHistory
	historyErr   error
	syncErr      error
	release      chan struct{}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListEmployees(_ context.Context, query apiclient.EmployeeQuery) (performance.EmployeePage, error) {
	f.record("ListEmployees")
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	return f.employees, f.employeesErr
}

func (f *fakeBackend) ListReportees(_ context.Context, employeeID string) ([]performance.Employee, error) {
	f.record("ListReportees")
	if f.reporteesErr != nil {
		return nil, f.reporteesErr
	}
	return f.reportees[employeeID], nil
}

func (f *fakeBackend) ListUserKRAs(_ context.Context, employeeID string) (performance.EmployeeKRAs, error) {
	f.record("ListUserKRAs")
	if f.krasErr != nil {
		return performance.EmployeeKRAs{}, f.krasErr
	}
	return f.kras[employeeID], nil
}

func (f *fakeBackend) CreateGoal(_ context.Context, payload performance.CreateGoalPayload) (performance.ZohoGoal, error) {
	f.record("CreateGoal")
	return performance.ZohoGoal{ID: "g-new", GoalNameOnZoho: payload.GoalName, Priority: payload.Priority}, nil
}

func (f *fakeBackend) UpdateGoal(_ context.Context, goalID string, input performance.UpdateGoalInput) (performance.ZohoGoal, error) {
	f.record("UpdateGoal")
	return performance.ZohoGoal{ID: goalID, GoalNameOnZoho: input.GoalName, Priority: input.Priority}, nil
}

func (f *fakeBackend) SubmitFeedback(_ context.Context, input performance.FeedbackInput) (performance.Feedback, error) {
	f.record("SubmitFeedback")
	rating := input.Rating
	return performance.Feedback{ID: "f-new", GoalID: input.GoalID, Rating: &rating}, nil
}

func (f *fakeBackend) FeedbackForGoal(context.Context, string) ([]performance.Feedback, error) {
	f.record("FeedbackForGoal")
	return f.goalFeedback, nil
}

func (f *fakeBackend) FeedbackReceived(context.Context) ([]performance.FeedbackCenterItem, error) {
	f.record("FeedbackReceived")
	return f.received, nil
}

func (f *fakeBackend) FeedbackGiven(context.Context) ([]performance.FeedbackCenterItem, error) {
	f.record("FeedbackGiven")
	return f.given, f.givenErr
}

func (f *fakeBackend) ListDueDateRequests(context.Context) ([]performance.DueDateChangeRequest, error) {
	f.record("ListDueDateRequests")
	return f.toApprove, f.toApproveErr
}

func (f *fakeBackend) ListMyDueDateRequests(context.Context) ([]performance.DueDateChangeRequest, error) {
	f.record("ListMyDueDateRequests")
	return f.mine, nil
}

func (f *fakeBackend) DecideDueDateRequest(_ context.Context, requestID string, approved bool) (performance.DueDateChangeRequest, error) {
	f.record("DecideDueDateRequest")
	if f.release != nil {
		<-f.release
	}
	if f.decisionErr != nil {
		return performance.DueDateChangeRequest{}, f.decisionErr
	}
	result := f.decision
	result.ID = requestID
	if result.Status == "" {
		result.Status = performance.DueDateStatusRejected
		if approved {
			result.Status = performance.DueDateStatusApproved
		}
	}
	return result, nil
}

func (f *fakeBackend) RequestDueDateChange(_ context.Context, input performance.DueDateChangeInput) (performance.DueDateChangeRequest, error) {
	f.record("RequestDueDateChange")
	return performance.DueDateChangeRequest{
		ID:              "r-new",
		ProposedDueDate: input.ProposedDueDate,
		Status:          performance.DueDateStatusPending,
	}, nil
}

func (f *fakeBackend) SyncEmployees(context.Context) (performance.SyncRun, error) {
	f.record("SyncEmployees")
	return performance.SyncRun{Status: "success", RecordsProcessed: 12}, f.syncErr
}

func (f *fakeBackend) SyncGoals(context.Context) (performance.SyncRun, error) {
	f.record("SyncGoals")
	return performance.SyncRun{Status: "success", RecordsProcessed: 40}, f.syncErr
}

func (f *fakeBackend) SyncHistory(context.Context) (performance.SyncHistory, error) {
	f.record("SyncHistory")
	return f.history, f.historyErr
}
