package view

import (
	"context"

	"kra360/internal/domain/access"
	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
	"kra360/internal/validation"
)

// CreateGoal validates input and creates a goal for its target, which
// defaults to the viewer.
func (s *Service) CreateGoal(ctx context.Context, input performance.CreateGoalInput) (performance.ZohoGoal, error) {
	if err := s.require(auth.PermGoalsWrite); err != nil {
		return performance.ZohoGoal{}, err
	}
	if err := validation.Struct(input); err != nil {
		return performance.ZohoGoal{}, err
	}
	payload := input.Payload(s.viewer.ID)
	if payload.TargetEmployeeID != s.viewer.ID && !s.Policy(ctx).Permissions(payload.TargetEmployeeID).CanAddGoal {
		return performance.ZohoGoal{}, ErrForbidden
	}
	return s.backend.CreateGoal(ctx, payload)
}

// UpdateGoal edits a goal owned by ownerID. Only the owner and the
// owner's direct manager may edit.
func (s *Service) UpdateGoal(ctx context.Context, ownerID, goalID string, input performance.UpdateGoalInput) (performance.ZohoGoal, error) {
	if err := s.require(auth.PermGoalsWrite); err != nil {
		return performance.ZohoGoal{}, err
	}
	if goalID == "" {
		return performance.ZohoGoal{}, validation.New(validation.Issue{Field: "goalId", Reason: "is required"})
	}
	if err := validation.Struct(input); err != nil {
		return performance.ZohoGoal{}, err
	}
	if !s.policyFor(ctx, ownerID).CanEdit(ownerID) {
		return performance.ZohoGoal{}, ErrForbidden
	}
	if err := s.requireGoalOwner(ctx, ownerID, goalID); err != nil {
		return performance.ZohoGoal{}, err
	}
	input.Priority = performance.BackendPriority(input.Priority)
	return s.backend.UpdateGoal(ctx, goalID, input)
}

// SubmitFeedback gives feedback on a goal owned by recipientID.
func (s *Service) SubmitFeedback(ctx context.Context, recipientID string, input performance.FeedbackInput) (performance.Feedback, error) {
	if err := s.require(auth.PermFeedbackWrite); err != nil {
		return performance.Feedback{}, err
	}
	if err := validation.Struct(input); err != nil {
		return performance.Feedback{}, err
	}
	if !s.policyFor(ctx, recipientID).CanGiveFeedback(recipientID) {
		return performance.Feedback{}, ErrForbidden
	}
	if err := s.requireGoalOwner(ctx, recipientID, input.GoalID); err != nil {
		return performance.Feedback{}, err
	}
	return s.backend.SubmitFeedback(ctx, input)
}

// RequestDueDateChange asks the approver to move the due date of one of
// the viewer's own goals.
func (s *Service) RequestDueDateChange(ctx context.Context, ownerID string, input performance.DueDateChangeInput) (performance.DueDateChangeRequest, error) {
	if err := s.require(auth.PermDueDateRequest); err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	if err := validation.Struct(input); err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	if ownerID != s.viewer.ID {
		return performance.DueDateChangeRequest{}, ErrForbidden
	}
	if err := s.requireGoalOwner(ctx, ownerID, input.GoalID); err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	return s.backend.RequestDueDateChange(ctx, input)
}

// DecideDueDateRequest approves or rejects a pending request once. The
// request must be PENDING in the approver's queue at decision time.
func (s *Service) DecideDueDateRequest(ctx context.Context, requestID string, approved bool) (performance.DueDateChangeRequest, error) {
	if err := s.require(auth.PermDueDateApprove); err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	if requestID == "" {
		return performance.DueDateChangeRequest{}, validation.New(validation.Issue{Field: "requestId", Reason: "is required"})
	}
	return s.ledger.Decide(ctx, requestID, func(ctx context.Context) (performance.DueDateChangeRequest, error) {
		if err := s.requirePending(ctx, requestID); err != nil {
			return performance.DueDateChangeRequest{}, err
		}
		return s.backend.DecideDueDateRequest(ctx, requestID, approved)
	})
}

// requirePending re-reads the approver's queue. Terminal requests seen
// there are recorded in the ledger.
func (s *Service) requirePending(ctx context.Context, requestID string) error {
	requests, err := s.backend.ListDueDateRequests(ctx)
	if err != nil {
		return err
	}
	s.ledger.Observe(requests)
	for _, request := range requests {
		if request.ID != requestID {
			continue
		}
		if !request.Pending() {
			return ErrAlreadyDecided
		}
		return nil
	}
	return ErrForbidden
}

// SyncResult is a finished sync trigger and the history read after it.
type SyncResult struct {
	Type    string                                    `json:"type"`
	Run     performance.SyncRun                       `json:"run"`
	History Loadable[[]performance.SyncHistoryRecord] `json:"history"`
}

// RunSync triggers an HRIS sync of syncType and refreshes the history.
func (s *Service) RunSync(ctx context.Context, syncType string) (SyncResult, error) {
	if err := s.require(auth.PermSyncRun); err != nil {
		return SyncResult{}, err
	}
	var trigger func(context.Context) (performance.SyncRun, error)
	switch syncType {
	case performance.SyncTypeEmployees:
		trigger = s.backend.SyncEmployees
	case performance.SyncTypeGoals:
		trigger = s.backend.SyncGoals
	default:
		return SyncResult{}, validation.New(validation.Issue{Field: "type", Reason: "must be one of: employees goals"})
	}

	run, err := trigger(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	result := SyncResult{Type: syncType, Run: run}
	history, err := s.backend.SyncHistory(ctx)
	if err != nil {
		result.History = Failed[[]performance.SyncHistoryRecord](err)
		return result, nil
	}
	result.History = LoadedList(history.History)
	return result, nil
}

// requireGoalOwner returns ErrForbidden unless goalID is one of ownerID's
// goals.
func (s *Service) requireGoalOwner(ctx context.Context, ownerID, goalID string) error {
	data, err := s.backend.ListUserKRAs(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, kra := range data.KRAs {
		for _, goal := range kra.Goals {
			if goal.ID == goalID {
				return nil
			}
		}
	}
	return ErrForbidden
}

func (s *Service) policyFor(ctx context.Context, targetID string) access.Policy {
	if targetID == s.viewer.ID {
		return access.NewPolicy(s.viewer, access.NewReporteeSet())
	}
	return s.Policy(ctx)
}
