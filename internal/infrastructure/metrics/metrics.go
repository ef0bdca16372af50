package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "bookmarkapi"

// NewCounter registers the shared "result" counter vector on reg.
// Callers label it with the event name, e.g. "bookmark_created_total".
func NewCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewRequestDuration tracks HTTP latency per route and status.
func NewRequestDuration(reg prometheus.Registerer) *prometheus.HistogramVec {
	return promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"})
}
