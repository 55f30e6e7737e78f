package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	syncOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calsync",
			Name:      "sync_operations_total",
			Help:      "Calendar sync operations by action and status.",
		},
		[]string{"action", "status"},
	)

	syncRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calsync",
			Name:      "sync_retries_total",
			Help:      "In-process retries by operation.",
		},
		[]string{"operation"},
	)

	syncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calsync",
			Name:      "sync_duration_seconds",
			Help:      "Wall time of sync operations including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(syncOperations, syncRetries, syncDuration)
	})
}

// IncSync increments the operation counter for an action/status pair.
func IncSync(action, status string) {
	syncOperations.WithLabelValues(action, status).Inc()
}

// IncRetry increments the retry counter for an operation label.
func IncRetry(operation string) {
	syncRetries.WithLabelValues(operation).Inc()
}

// ObserveDuration records the wall time of an operation.
func ObserveDuration(operation string, d time.Duration) {
	syncDuration.WithLabelValues(operation).Observe(d.Seconds())
}
