package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RevenueJobMetrics records run metadata and data-quality counters for the
// daily store-revenue aggregation job.
type RevenueJobMetrics struct {
	duration          *prometheus.HistogramVec
	success           *prometheus.CounterVec
	failure           *prometheus.CounterVec
	itemsFetched      prometheus.Counter
	itemsForDate      prometheus.Counter
	unmatchedItems    prometheus.Counter
	skippedTimestamps prometheus.Counter
}

// NewRevenueJobMetrics registers the job metrics on the provided registerer.
// A nil registerer yields a no-op collector, which tests and optional wiring
// rely on.
func NewRevenueJobMetrics(reg prometheus.Registerer) *RevenueJobMetrics {
	if reg == nil {
		return &RevenueJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revenue_job_duration_seconds",
		Help:    "Duration of revenue aggregation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_job_success",
		Help: "Successful revenue aggregation runs.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_job_failure",
		Help: "Failed revenue aggregation runs.",
	}, []string{"job"})
	itemsFetched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenue_job_items_fetched_total",
		Help: "Raw order items fetched from the entity store.",
	})
	itemsForDate := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenue_job_items_for_date_total",
		Help: "Order items that fell inside the target day window.",
	})
	unmatchedItems := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenue_job_unmatched_items_total",
		Help: "Order items that resolved to no known store.",
	})
	skippedTimestamps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenue_job_skipped_timestamps_total",
		Help: "Order items skipped for missing or unparseable modifiedDate.",
	})
	reg.MustRegister(duration, success, failure, itemsFetched, itemsForDate, unmatchedItems, skippedTimestamps)
	return &RevenueJobMetrics{
		duration:          duration,
		success:           success,
		failure:           failure,
		itemsFetched:      itemsFetched,
		itemsForDate:      itemsForDate,
		unmatchedItems:    unmatchedItems,
		skippedTimestamps: skippedTimestamps,
	}
}

// ObserveDuration records the duration for the named job.
func (m *RevenueJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *RevenueJobMetrics) IncSuccess(job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *RevenueJobMetrics) IncFailure(job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// ObserveRun records the item counters for a completed run.
func (m *RevenueJobMetrics) ObserveRun(fetched, forDate, unmatched, skipped int) {
	if m == nil || m.itemsFetched == nil {
		return
	}
	m.itemsFetched.Add(float64(fetched))
	m.itemsForDate.Add(float64(forDate))
	m.unmatchedItems.Add(float64(unmatched))
	m.skippedTimestamps.Add(float64(skipped))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
