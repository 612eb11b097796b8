// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels: method, route (matched pattern), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cefilm_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cefilm_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// Recommendations counts orchestrated recommendation requests.
	// Labels:
	//   - outcome: "success", "fallback", "rejected"
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cefilm_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// CollaboratorDuration measures recommendation engine latency, failures included.
	CollaboratorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cefilm_recommender_duration_seconds",
			Help:    "Duration of recommendation engine calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 45},
		},
	)

	// TicketsConsumed counts decremented tickets.
	// Labels:
	//   - identity: "guest", "account"
	TicketsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cefilm_tickets_consumed_total",
			Help: "Total number of tickets consumed",
		},
		[]string{"identity"},
	)

	// VIPTransitions counts ledger VIP changes.
	// Labels:
	//   - direction: "activate", "deactivate"
	VIPTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cefilm_vip_transitions_total",
			Help: "Total number of VIP activations and deactivations",
		},
		[]string{"direction"},
	)

	// WebhookEvents counts payment provider events.
	// Labels:
	//   - type: provider event type
	//   - result: "handled", "ignored", "duplicate", "failed"
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cefilm_webhook_events_total",
			Help: "Total number of payment webhook events",
		},
		[]string{"type", "result"},
	)

	// SubscriptionSyncs counts pull reconciliations.
	// Labels:
	//   - result: "activated", "deactivated", "unchanged", "error"
	SubscriptionSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cefilm_subscription_syncs_total",
			Help: "Total number of pull subscription reconciliations",
		},
		[]string{"result"},
	)
)
