package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"kra360/internal/domain/performance"
)

// EmployeeQuery filters the employee directory. Zero values are omitted.
type EmployeeQuery struct {
	Role   string
	Status string
	Page   int
	Limit  int
	Search string
}

// DefaultEmployeeQuery lists the first hundred active employees.
func DefaultEmployeeQuery() EmployeeQuery {
	return EmployeeQuery{Status: "Active", Page: 1, Limit: 100}
}

func (q EmployeeQuery) Encode() string {
	values := url.Values{}
	if q.Role != "" {
		values.Set("role", q.Role)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values.Encode()
}

// ListEmployees returns one page of the directory with its metadata.
func (c *Client) ListEmployees(ctx context.Context, query EmployeeQuery) (performance.EmployeePage, error) {
	path := "/employees"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return performance.EmployeePage{}, err
	}
	var body struct {
		Data     []performance.Employee   `json:"data"`
		Metadata performance.PageMetadata `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return performance.EmployeePage{}, &RequestError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	if body.Data == nil {
		body.Data = []performance.Employee{}
	}
	return performance.EmployeePage{Employees: body.Data, Metadata: body.Metadata}, nil
}

func (c *Client) GetEmployee(ctx context.Context, employeeID string) (performance.Employee, error) {
	employee, err := getResource[performance.Employee](ctx, c, resourcePath("/employees/%s", employeeID))
	if err != nil {
		return performance.Employee{}, err
	}
	return *employee, nil
}

// ListReportees returns the direct reportees of employeeID.
func (c *Client) ListReportees(ctx context.Context, employeeID string) ([]performance.Employee, error) {
	return listResources[performance.Employee](ctx, c, resourcePath("/employees/%s/reportees", employeeID))
}
