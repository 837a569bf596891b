package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cleanroster_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cleanroster_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	groupAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cleanroster_group_assignments_total",
		Help: "Group assignment attempts by specialization and result",
	}, []string{"specialization", "result"})

	ratingUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cleanroster_rating_updates_total",
		Help: "Client rating submissions by result",
	}, []string{"result"})

	statisticsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cleanroster_statistics_duration_seconds",
		Help:    "Duration of statistics computations",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	snapshotAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cleanroster_statistics_snapshot_timestamp_seconds",
		Help: "Unix time of the last stored statistics snapshot",
	})
)

func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAssignment records one group selection, result is "success",
// "no_eligible_group" or "error".
func ObserveAssignment(specialization, result string) {
	groupAssignments.WithLabelValues(specialization, result).Inc()
}

func ObserveRating(result string) {
	ratingUpdates.WithLabelValues(result).Inc()
}

func ObserveStatistics(report string, duration time.Duration) {
	statisticsDuration.WithLabelValues(report).Observe(duration.Seconds())
}

func SetSnapshotTime(t time.Time) {
	snapshotAge.Set(float64(t.Unix()))
}
