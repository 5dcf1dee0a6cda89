package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking related metrics
	BookingsCreated   prometheus.Counter
	BookingsRejected  *prometheus.CounterVec
	RecurringExpanded prometheus.Histogram

	// Reminder related metrics
	RemindersDispatched prometheus.Counter
	RemindersFailed     prometheus.Counter
	ReminderLatency     prometheus.Histogram

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates all application metrics on the default registry.
func NewMetrics(namespace, subsystem string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace, subsystem)
}

// NewMetricsWith creates all application metrics on the given registry.
func NewMetricsWith(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_created_total",
			Help:      "Total number of appointments created",
		}),
		BookingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_rejected_total",
			Help:      "Total number of rejected booking attempts by reason",
		}, []string{"reason"}),
		RecurringExpanded: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recurring_occurrences",
			Help:      "Number of occurrences generated per recurring booking",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 12},
		}),
		RemindersDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_dispatched_total",
			Help:      "Total number of successfully dispatched reminders",
		}),
		RemindersFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_failed_total",
			Help:      "Total number of failed reminder dispatches",
		}),
		ReminderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminder_dispatch_duration_seconds",
			Help:      "Time spent dispatching a reminder batch",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations by type and status",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Database operation latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
