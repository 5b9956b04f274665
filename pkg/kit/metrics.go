package kit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-request counts and latencies. The path label comes
// from a caller-supplied function so routes can be labeled by pattern
// instead of raw path, keeping the cardinality bounded.
type Metrics struct {
	service  string
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg *prometheus.Registry, service string) *Metrics {
	m := &Metrics{
		service: service,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, path and status",
			},
			[]string{"service", "method", "path", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency by method and path",
			},
			[]string{"service", "method", "path"},
		),
	}

	reg.MustRegister(m.requests, m.latency)
	return m
}

// statusWriter captures the response code; a handler that never calls
// WriteHeader implicitly answered 200.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) Middleware(pathLabel func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(sw, r)

			m.observe(r.Method, pathLabel(r), sw.status, time.Since(start))
		})
	}
}

func (m *Metrics) observe(method, path string, status int, elapsed time.Duration) {
	m.latency.WithLabelValues(m.service, method, path).
		Observe(elapsed.Seconds())
	m.requests.WithLabelValues(m.service, method, path, strconv.Itoa(status)).
		Inc()
}
