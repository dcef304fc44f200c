package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ReconcileRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Total completed reconciliation runs",
	})

	ReconcileFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_failures_total",
		Help: "Total failed reconciliation runs",
	}, []string{"reason"})

	TrackedFriends = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracked_friends",
		Help: "Non-follower friends tracked after the last reconciliation",
	})

	UnfollowsDone = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unfollows_total",
		Help: "Total friendships destroyed and purged",
	})

	UnfollowFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unfollow_failures_total",
		Help: "Total friendship destroy calls that failed",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ReconcileRuns)
	prometheus.MustRegister(ReconcileFailures)
	prometheus.MustRegister(TrackedFriends)
	prometheus.MustRegister(UnfollowsDone)
	prometheus.MustRegister(UnfollowFailures)
}

// Middleware to track request timing and status code
type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		route := r.URL.Path
		method := r.Method
		status := fmt.Sprintf("%d", rw.statusCode)

		RequestDuration.WithLabelValues(method, route, status).Observe(duration)
	})
}
