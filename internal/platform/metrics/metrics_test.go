package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestRecord(t *testing.T) {
	c := New()
	c.Record("/api/v1/goals", http.MethodGet, 200, 12*time.Millisecond)
	c.Record("/api/v1/goals", http.MethodGet, 200, 8*time.Millisecond)
	c.Record("/api/v1/auth/login", http.MethodPost, 429, time.Millisecond)
	c.Record("", http.MethodGet, 404, time.Millisecond)

	body := scrape(t, c)
	for _, line := range []string{
		`kra360_http_requests_total{method="GET",route="/api/v1/goals",status="200"} 2`,
		`kra360_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
		`kra360_http_rate_limited_total 1`,
	} {
		if !strings.Contains(body, line) {
			t.Fatalf("expected %q in metrics output", line)
		}
	}
}

func TestObserveUpstream(t *testing.T) {
	c := New()
	c.ObserveUpstream("GET", "/kras/user/u1", 200, nil)
	c.ObserveUpstream("GET", "/kras/user/u1", 404, errors.New("not found"))
	c.ObserveUpstream("POST", "/goals", 0, errors.New("dial tcp"))
	c.ObserveUpstream("POST", "/goals", 503, errors.New("unavailable"))

	body := scrape(t, c)
	for _, line := range []string{
		`kra360_upstream_requests_total{method="GET",outcome="ok"} 1`,
		`kra360_upstream_requests_total{method="GET",outcome="client_error"} 1`,
		`kra360_upstream_requests_total{method="POST",outcome="network_error"} 1`,
		`kra360_upstream_requests_total{method="POST",outcome="server_error"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Fatalf("expected %q in metrics output", line)
		}
	}
}

func TestSessionsPurged(t *testing.T) {
	c := New()
	c.SessionsPurged(3)
	c.SessionsPurged(0)

	if body := scrape(t, c); !strings.Contains(body, "kra360_sessions_purged_total 3") {
		t.Fatal("expected purged sessions counter")
	}
}
