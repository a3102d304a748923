package middleware

import (
	"net/http"
	"time"
)

// MetricsRecorder receives one observation per served request.
type MetricsRecorder interface {
	Record(route, method string, status int, duration time.Duration)
}

func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			status := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(status, r)
			recorder.Record(routePattern(r), r.Method, status.status, time.Since(start))
		})
	}
}
