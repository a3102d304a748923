package apiclient

import (
	"context"

	"kra360/internal/domain/performance"
)

// ListUserKRAs returns the KRA hierarchy of an employee with nested goals.
func (c *Client) ListUserKRAs(ctx context.Context, employeeID string) (performance.EmployeeKRAs, error) {
	kras, err := getResource[performance.EmployeeKRAs](ctx, c, resourcePath("/kras/user/%s", employeeID))
	if err != nil {
		return performance.EmployeeKRAs{}, err
	}
	if kras.KRAs == nil {
		kras.KRAs = []performance.KRA{}
	}
	return *kras, nil
}
