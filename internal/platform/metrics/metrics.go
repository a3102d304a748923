package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the dashboard's Prometheus metrics on its own registry.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	upstreamTotal   *prometheus.CounterVec
	sessionsPurged  prometheus.Counter
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kra360_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kra360_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kra360_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		upstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kra360_upstream_requests_total",
				Help: "Backend API calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kra360_sessions_purged_total",
			Help: "Expired dashboard sessions removed",
		}),
	}
	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.rateLimited,
		c.upstreamTotal,
		c.sessionsPurged,
		collectors.NewGoCollector(),
	)
	return c
}

// Record counts one served request. route is the matched route pattern.
func (c *Collector) Record(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

// ObserveUpstream counts one backend API call. Its signature matches
// apiclient.Observer.
func (c *Collector) ObserveUpstream(method, _ string, statusCode int, err error) {
	c.upstreamTotal.WithLabelValues(method, upstreamOutcome(statusCode, err)).Inc()
}

func (c *Collector) SessionsPurged(n int64) {
	if n > 0 {
		c.sessionsPurged.Add(float64(n))
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func upstreamOutcome(statusCode int, err error) string {
	switch {
	case statusCode == 0 && err != nil:
		return "network_error"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	case err != nil:
		return "decode_error"
	default:
		return "ok"
	}
}
