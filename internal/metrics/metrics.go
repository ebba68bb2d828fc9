package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	RemindersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_total",
			Help: "Reminder delivery attempts by type and outcome",
		},
		[]string{"type", "outcome"},
	)
	ReminderTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reminder_tick_duration_seconds",
			Help:    "Duration of one reminder scheduler pass",
			Buckets: prometheus.DefBuckets,
		},
	)
	ReminderTickErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_tick_errors_total",
			Help: "Scheduler passes that failed before processing candidates",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RemindersTotal,
		ReminderTickDuration,
		ReminderTickErrors,
	)
}
