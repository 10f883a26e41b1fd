package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	EntriesSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entries_submitted_total",
			Help: "Procedure log entries submitted, by result.",
		},
		[]string{"result"},
	)

	EntryDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entry_decisions_total",
			Help: "Decisions applied to entries, by outcome and result.",
		},
		[]string{"outcome", "result"},
	)

	PendingQueueFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pending_queue_fetches_total",
			Help: "Review queue listings, by result.",
		},
		[]string{"result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		EntriesSubmittedTotal,
		EntryDecisionsTotal,
		PendingQueueFetchesTotal,
	)
}
