package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kra360/internal/apiclient"
	"kra360/internal/session"
	"kra360/internal/transport/http/api"
	"kra360/internal/validation"
	"kra360/internal/view"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var body api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: validation.New(validation.Issue{Field: "goalName", Reason: "is required"}), status: 400, code: "validation_error"},
		{name: "forbidden", err: fmt.Errorf("board: %w", view.ErrForbidden), status: 403, code: "forbidden"},
		{name: "decided", err: view.ErrAlreadyDecided, status: 409, code: "already_decided"},
		{name: "authentication", err: &session.AuthenticationError{Message: "User not found"}, status: 401, code: "authentication_failed"},
		{name: "upstream not found", err: &apiclient.RequestError{Message: "Goal not found", StatusCode: 404}, status: 404, code: "upstream_error"},
		{name: "upstream server error", err: &apiclient.RequestError{Message: "boom", StatusCode: 500}, status: 502, code: "upstream_error"},
		{name: "network", err: &apiclient.RequestError{Message: "dial tcp"}, status: 502, code: "upstream_error"},
		{name: "unknown", err: errors.New("oops"), status: 500, code: "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err, "req-1")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			body := decodeEnvelope(t, rec)
			if body.Error == nil || body.Error.Code != tc.code {
				t.Fatalf("unexpected error body: %+v", body.Error)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if !DecodeJSON(httptest.NewRecorder(), req, &dst, "") || dst.Name != "x" {
		t.Fatalf("expected decode to succeed, got %+v", dst)
	}

	rec := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	if DecodeJSON(rec, req, &dst, "") {
		t.Fatal("expected decode to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Enum("role", "owner", []string{"hr", "manager", "employee"}, "must be one of: hr manager employee")
	v.Required("id", " ", "is required")
	v.Enum("role2", "", []string{"hr"}, "ignored when empty")

	issues := v.Issues()
	if len(issues) != 2 || issues[0].Field != "id" || issues[1].Field != "role" {
		t.Fatalf("unexpected issues: %+v", issues)
	}

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected rejection, got %d", rec.Code)
	}
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{"": 1, "?page=3": 3, "?page=0": 1, "?page=x": 1}
	for query, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/employees"+query, nil)
		if got := ParsePage(req); got != want {
			t.Fatalf("%q: expected %d, got %d", query, want, got)
		}
	}
}

func TestParsePagination(t *testing.T) {
	cases := map[string]Pagination{
		"":                    {Limit: 50},
		"?limit=10&offset=20": {Limit: 10, Offset: 20},
		"?limit=9999":         {Limit: 200},
		"?limit=-1&offset=-5": {Limit: 50},
	}
	for query, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/audit/events"+query, nil)
		if got := ParsePagination(req, 50, 200); got != want {
			t.Fatalf("%q: expected %+v, got %+v", query, want, got)
		}
	}
}
