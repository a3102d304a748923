package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"kra360/internal/domain/performance"
)

// SyncEmployees triggers an employee pull from the HRIS.
func (c *Client) SyncEmployees(ctx context.Context) (performance.SyncRun, error) {
	return c.triggerSync(ctx, "/sync/employees")
}

// SyncGoals triggers a goal pull for the acting employee.
func (c *Client) SyncGoals(ctx context.Context) (performance.SyncRun, error) {
	return c.triggerSync(ctx, "/sync/goals")
}

// triggerSync treats any 2xx as success. The body is decoded best effort
// because its shape varies by sync type.
func (c *Client) triggerSync(ctx context.Context, path string) (performance.SyncRun, error) {
	raw, err := c.send(ctx, http.MethodPost, path, nil)
	if err != nil {
		return performance.SyncRun{}, err
	}
	var run performance.SyncRun
	if len(raw) > 0 {
		if json.Unmarshal(unwrap(raw), &run) != nil {
			_ = json.Unmarshal(raw, &run)
		}
	}
	return run, nil
}

func (c *Client) SyncHistory(ctx context.Context) (performance.SyncHistory, error) {
	history, err := getResource[performance.SyncHistory](ctx, c, "/sync/employees/history")
	if err != nil {
		return performance.SyncHistory{}, err
	}
	if history.History == nil {
		history.History = []performance.SyncHistoryRecord{}
	}
	return *history, nil
}
