package apiclient

import (
	"context"

	"kra360/internal/domain/performance"
)

func (c *Client) CreateGoal(ctx context.Context, payload performance.CreateGoalPayload) (performance.ZohoGoal, error) {
	goal, err := createResource[performance.ZohoGoal](ctx, c, "/goals", payload)
	if err != nil {
		return performance.ZohoGoal{}, err
	}
	return *goal, nil
}

func (c *Client) UpdateGoal(ctx context.Context, goalID string, input performance.UpdateGoalInput) (performance.ZohoGoal, error) {
	goal, err := updateResource[performance.ZohoGoal](ctx, c, resourcePath("/goals/%s", goalID), input)
	if err != nil {
		return performance.ZohoGoal{}, err
	}
	return *goal, nil
}

// ListDueDateRequests returns the requests waiting on the caller's decision.
func (c *Client) ListDueDateRequests(ctx context.Context) ([]performance.DueDateChangeRequest, error) {
	return listResources[performance.DueDateChangeRequest](ctx, c, "/goals/due-date-requests")
}

// ListMyDueDateRequests returns the requests the caller created.
func (c *Client) ListMyDueDateRequests(ctx context.Context) ([]performance.DueDateChangeRequest, error) {
	return listResources[performance.DueDateChangeRequest](ctx, c, "/goals/my-due-date-requests")
}

func (c *Client) DecideDueDateRequest(ctx context.Context, requestID string, approved bool) (performance.DueDateChangeRequest, error) {
	request, err := updateResource[performance.DueDateChangeRequest](ctx, c,
		resourcePath("/goals/due-date-requests/%s", requestID), performance.DueDateDecision{Approved: approved})
	if err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	return *request, nil
}

type dueDateChangeBody struct {
	ProposedDueDate string `json:"proposedDueDate"`
	Reason          string `json:"reason,omitempty"`
}

func (c *Client) RequestDueDateChange(ctx context.Context, input performance.DueDateChangeInput) (performance.DueDateChangeRequest, error) {
	body := dueDateChangeBody{ProposedDueDate: input.ProposedDueDate, Reason: input.Reason}
	request, err := createResource[performance.DueDateChangeRequest](ctx, c,
		resourcePath("/goals/%s/due-date-requests", input.GoalID), body)
	if err != nil {
		return performance.DueDateChangeRequest{}, err
	}
	return *request, nil
}
