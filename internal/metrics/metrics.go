// Package metrics provides Prometheus instrumentation for the tracker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ImportsTotal counts build imports, partitioned by game and result.
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exile_imports_total",
		Help: "Total number of build import attempts",
	}, []string{"game", "result"})

	// EngineComputations counts calculation engine runs by outcome.
	// Failed runs still produce a response with zeroed stats.
	EngineComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exile_engine_computations_total",
		Help: "Calculation engine invocations",
	}, []string{"game", "result"})

	// EngineDuration tracks how long engine runs take.
	EngineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exile_engine_duration_seconds",
		Help:    "Calculation engine run duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	// TradeRequestsTotal counts trade site API calls by endpoint and status.
	TradeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exile_trade_requests_total",
		Help: "Trade site API requests",
	}, []string{"endpoint", "result"})

	// RankingsTotal counts upgrade ranking runs.
	RankingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exile_rankings_total",
		Help: "Upgrade ranking runs",
	})

	// ActiveSessions tracks sessions saved minus sessions deleted. Expiry
	// is not observable, so this is an upper bound.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "exile_active_sessions",
		Help: "Approximate number of live build sessions",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exile_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exile_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0, 30.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern for path label to avoid high cardinality.
		path := r.URL.Path
		if r.Pattern != "" {
			path = r.Pattern
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
