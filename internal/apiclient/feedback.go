package apiclient

import (
	"context"

	"kra360/internal/domain/performance"
)

func (c *Client) SubmitFeedback(ctx context.Context, input performance.FeedbackInput) (performance.Feedback, error) {
	feedback, err := createResource[performance.Feedback](ctx, c, "/feedback", input)
	if err != nil {
		return performance.Feedback{}, err
	}
	return *feedback, nil
}

func (c *Client) FeedbackForGoal(ctx context.Context, goalID string) ([]performance.Feedback, error) {
	return listResources[performance.Feedback](ctx, c, resourcePath("/feedback/goal/%s", goalID))
}

func (c *Client) FeedbackReceived(ctx context.Context) ([]performance.FeedbackCenterItem, error) {
	return listResources[performance.FeedbackCenterItem](ctx, c, "/feedback/received")
}

func (c *Client) FeedbackGiven(ctx context.Context) ([]performance.FeedbackCenterItem, error) {
	return listResources[performance.FeedbackCenterItem](ctx, c, "/feedback/given")
}
