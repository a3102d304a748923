// Package view composes role-shaped view models from backend data.
package view

import (
	"context"
	"errors"
	"time"

	"kra360/internal/apiclient"
	"kra360/internal/domain/access"
	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
)

var ErrForbidden = errors.New("not permitted for this viewer")

// Backend is the API surface the views read and write through. It is
// already scoped to the viewer.
type Backend interface {
	ListEmployees(ctx context.Context, query apiclient.EmployeeQuery) (performance.EmployeePage, error)
	ListReportees(ctx context.Context, employeeID string) ([]performance.Employee, error)
	ListUserKRAs(ctx context.Context, employeeID string) (performance.EmployeeKRAs, error)
	CreateGoal(ctx context.Context, payload performance.CreateGoalPayload) (performance.ZohoGoal, error)
	UpdateGoal(ctx context.Context, goalID string, input performance.UpdateGoalInput) (performance.ZohoGoal, error)
	SubmitFeedback(ctx context.Context, input performance.FeedbackInput) (performance.Feedback, error)
	FeedbackForGoal(ctx context.Context, goalID string) ([]performance.Feedback, error)
	FeedbackReceived(ctx context.Context) ([]performance.FeedbackCenterItem, error)
	FeedbackGiven(ctx context.Context) ([]performance.FeedbackCenterItem, error)
	ListDueDateRequests(ctx context.Context) ([]performance.DueDateChangeRequest, error)
	ListMyDueDateRequests(ctx context.Context) ([]performance.DueDateChangeRequest, error)
	DecideDueDateRequest(ctx context.Context, requestID string, approved bool) (performance.DueDateChangeRequest, error)
	RequestDueDateChange(ctx context.Context, input performance.DueDateChangeInput) (performance.DueDateChangeRequest, error)
	SyncEmployees(ctx context.Context) (performance.SyncRun, error)
	SyncGoals(ctx context.Context) (performance.SyncRun, error)
	SyncHistory(ctx context.Context) (performance.SyncHistory, error)
}

// Service builds the views for one viewer.
type Service struct {
	backend Backend
	viewer  auth.Identity
	ledger  *DecisionLedger
	now     func() time.Time
}

type Option func(*Service)

func WithLedger(ledger *DecisionLedger) Option {
	return func(s *Service) {
		if ledger != nil {
			s.ledger = ledger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(backend Backend, viewer auth.Identity, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		viewer:  viewer,
		ledger:  NewDecisionLedger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Viewer() auth.Identity {
	return s.viewer
}

// Policy loads the viewer's reportees and returns the access policy. A
// failed reportee fetch yields a policy where only self is editable.
func (s *Service) Policy(ctx context.Context) access.Policy {
	_, reportees := access.LoadReportees(ctx, s.backend, s.viewer)
	return access.NewPolicy(s.viewer, reportees)
}

func (s *Service) require(perm string) error {
	if s.viewer.ID == "" || !auth.HasPermission(s.viewer.Role, perm) {
		return ErrForbidden
	}
	return nil
}
