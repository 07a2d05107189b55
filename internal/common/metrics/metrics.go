// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_handled_total",
			Help: "Total number of chat events handled successfully",
		},
		[]string{"task_type"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_failed_total",
			Help: "Total number of chat events that ended in an error reply",
		},
		[]string{"task_type", "error_code"},
	)

	EventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_event_duration_seconds",
			Help: "Duration of event handling in seconds",
		},
		[]string{"task_type"},
	)

	EventsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_events_active",
			Help: "Number of events currently being handled",
		},
		[]string{"task_type"},
	)

	SubscriptionsActivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_subscriptions_activated_total",
			Help: "Total number of subscription activations by tier",
		},
		[]string{"tier"},
	)

	PendingRequestsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_pending_requests_submitted_total",
			Help: "Total number of payment proofs submitted by plan",
		},
		[]string{"plan"},
	)

	StoreCorruptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_store_corruptions_total",
			Help: "Number of persisted collections or records that failed to decode",
		},
		[]string{"collection"},
	)
)
