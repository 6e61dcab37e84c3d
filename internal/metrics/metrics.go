package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inbox_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_messages_ingested_total",
			Help: "Inbound webhook messages persisted",
		},
		[]string{"resolution"}, // "matched" or "unmatched"
	)

	WebhookParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_webhook_parse_failures_total",
			Help: "Webhook entries skipped as malformed",
		},
	)

	ProviderSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_provider_sends_total",
			Help: "Outbound provider send attempts",
		},
		[]string{"provider", "outcome"}, // outcome: "ok" or "error"
	)

	BridgeForwards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_bridge_forwards_total",
			Help: "Bridge forwards between local accounts",
		},
		[]string{"outcome"},
	)

	// Realtime metrics
	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inbox_realtime_subscribers",
			Help: "Currently connected realtime subscribers",
		},
	)

	EventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_events_broadcast_total",
			Help: "Realtime events broadcast to subscribers",
		},
		[]string{"type"}, // "message" or "out"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
