package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled bot updates labeled by event and status",
		},
		[]string{"event", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)
	leadStoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_store_ops_total",
			Help: "Total number of durable store operations labeled by op and outcome",
		},
		[]string{"op", "outcome"},
	)
	deliveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_attempts_total",
			Help: "Final confirmation delivery attempts labeled by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)
	operatorNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operator_notifications_total",
			Help: "Operator notifications labeled by outcome",
		},
		[]string{"outcome"},
	)
	backgroundTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_tasks_total",
			Help: "Detached background tasks labeled by name and outcome",
		},
		[]string{"name", "outcome"},
	)
)

// RecordUpdate increments update counters and records handling duration.
func RecordUpdate(event, status string, duration time.Duration) {
	if event == "" {
		event = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(event, status).Inc()
	updateDurationSeconds.WithLabelValues(event).Observe(duration.Seconds())
}

// RecordStoreOp counts one durable store operation outcome.
func RecordStoreOp(op, outcome string) {
	leadStoreOpsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordDeliveryAttempt counts one delivery strategy attempt.
func RecordDeliveryAttempt(strategy, outcome string) {
	deliveryAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
}

// RecordNotification counts one operator notification outcome.
func RecordNotification(outcome string) {
	operatorNotificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordBackgroundTask counts one detached task outcome.
func RecordBackgroundTask(name, outcome string) {
	backgroundTasksTotal.WithLabelValues(name, outcome).Inc()
}
