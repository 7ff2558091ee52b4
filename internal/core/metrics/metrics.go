package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the storage-side collectors. HTTP collectors live in the
// middleware package.
type Metrics struct {
	DBQueryDuration *prometheus.HistogramVec
	DBErrors        *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_directory_db_query_duration_seconds",
			Help:    "Duration of employee repository queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		DBErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_directory_db_errors_total",
			Help: "Failed employee repository queries by kind.",
		}, []string{"operation", "kind"}),
	}
}

// ObserveQuery starts a timer for op; call the returned func when done.
// Safe on a nil receiver.
func (m *Metrics) ObserveQuery(op string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) CountError(op, kind string) {
	if m == nil {
		return
	}
	m.DBErrors.WithLabelValues(op, kind).Inc()
}
