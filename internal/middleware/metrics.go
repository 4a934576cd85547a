package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "expense_server_http_requests_total",
		Help: "HTTP requests by method, path pattern and status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "expense_server_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// ExpensesRecorded counts committed expenses.
	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_server_expenses_recorded_total",
		Help: "Expenses committed to a ledger.",
	})

	// SettlementsCommitted counts committed settlements.
	SettlementsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expense_server_settlements_total",
		Help: "Settlements committed.",
	})
)

// Metrics records request counts and latency. Labels use the route pattern,
// not the raw URL, to keep cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
