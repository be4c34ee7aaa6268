package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath replaces path IDs with placeholders to keep label cardinality
// bounded.
func normalizePath(path string) string {
	for _, prefix := range []string{
		"/api/v1/transactions/",
		"/api/v1/orders/",
		"/api/v1/users/",
	} {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			rest := path[len(prefix):]
			suffix := ""
			if i := strings.IndexByte(rest, '/'); i >= 0 {
				suffix = rest[i:]
			}
			return prefix + ":id" + suffix
		}
	}

	return path
}
