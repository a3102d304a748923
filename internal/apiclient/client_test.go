package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kra360/internal/domain/performance"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewTrimsBaseURL(t *testing.T) {
	client := New("http://localhost:3000/api/v1/")
	assert.Equal(t, "http://localhost:3000/api/v1", client.BaseURL())
	assert.Empty(t, client.EmployeeID())
}

func TestAsSendsEmployeeHeader(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "emp-42", r.Header.Get(EmployeeIDHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"status":"success","data":[]}`))
	})

	base := New(server.URL)
	scoped := base.As("emp-42")
	assert.Empty(t, base.EmployeeID())
	assert.Equal(t, "emp-42", scoped.EmployeeID())

	_, err := scoped.FeedbackReceived(context.Background())
	require.NoError(t, err)
}

func TestDoUnwrapsEnvelope(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":"u1","name":"Aman Tyagi","role":"Manager"}}`))
	})

	user, err := New(server.URL).LoginByZohoID(context.Background(), "z-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Manager", user.Role)
}

func TestDoFallsBackToWholeBody(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u2","name":"Neha Rao","role":"Team Member"}`))
	})

	user, err := New(server.URL).LoginByZohoID(context.Background(), "z-2")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestDoNullDataFallsBackToWholeBody(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":null,"history":[],"count":0}`))
	})

	history, err := New(server.URL).SyncHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history.History)
	assert.NotNil(t, history.History)
}

func TestRequestErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		details string
	}{
		{
			name:    "nested error message",
			status:  http.StatusBadRequest,
			body:    `{"error":{"message":"kraId is invalid","details":{"field":"kraId"}},"message":"outer"}`,
			message: "kraId is invalid",
			details: `{"field":"kraId"}`,
		},
		{
			name:    "top level message",
			status:  http.StatusNotFound,
			body:    `{"status":"fail","message":"Employee not found","details":["x"]}`,
			message: "Employee not found",
			details: `["x"]`,
		},
		{
			name:    "status text",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			message: "Bad Gateway",
		},
		{
			name:    "string error member",
			status:  http.StatusConflict,
			body:    `{"error":"duplicate","message":"Goal already exists"}`,
			message: "Goal already exists",
		},
		{
			name:    "unknown status",
			status:  599,
			body:    `{}`,
			message: "Request failed",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := New(server.URL).GetEmployee(context.Background(), "e1")
			require.Error(t, err)

			reqErr, ok := AsRequestError(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, reqErr.StatusCode)
			assert.Equal(t, tc.message, reqErr.Message)
			if tc.details != "" {
				assert.JSONEq(t, tc.details, string(reqErr.Details))
			} else {
				assert.Empty(t, reqErr.Details)
			}
		})
	}
}

func TestTransportFailureIsRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).ListUserKRAs(context.Background(), "e1")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.StatusCode)
	assert.NotEmpty(t, reqErr.Message)
}

func TestUndecodableBodyIsRequestError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":"not a list"}`))
	})

	_, err := New(server.URL).FeedbackGiven(context.Background())
	_, ok := AsRequestError(err)
	assert.True(t, ok)
}

func TestObserverSeesEveryCall(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	var statuses []int
	client := New(server.URL, WithObserver(func(method, path string, statusCode int, err error) {
		statuses = append(statuses, statusCode)
	}))

	require.NoError(t, client.get(context.Background(), "/ok", nil))
	require.Error(t, client.get(context.Background(), "/missing", nil))
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, statuses)
}

func TestContextCancellation(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(server.URL).GetEmployee(ctx, "e1")
	require.Error(t, err)
	_, ok := AsRequestError(err)
	assert.True(t, ok)
}

func TestListEmployeesKeepsMetadata(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees", r.URL.Path)
		assert.Equal(t, "Active", r.URL.Query().Get("status"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "Manager", r.URL.Query().Get("role"))
		assert.Equal(t, "ria", r.URL.Query().Get("search"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": []map[string]any{
				{"_id": "e1", "firstName": "Riya", "lastName": "Kapoor", "email": "riya@example.com", "role": "Manager"},
			},
			"metadata": map[string]int{"total": 1, "page": 1, "limit": 100, "totalPages": 1},
		})
	})

	query := DefaultEmployeeQuery()
	query.Role = "Manager"
	query.Search = "ria"
	page, err := New(server.URL).As("hr-1").ListEmployees(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "e1", page.Employees[0].Key())
	assert.Equal(t, "Riya Kapoor", page.Employees[0].DisplayName())
	assert.Equal(t, performance.PageMetadata{Total: 1, Page: 1, Limit: 100, TotalPages: 1}, page.Metadata)
}

func TestEmployeeQueryOmitsZeroValues(t *testing.T) {
	assert.Empty(t, EmployeeQuery{}.Encode())
	assert.Equal(t, "limit=100&page=1&status=Active", DefaultEmployeeQuery().Encode())
}
