package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTPRequests counts OTP sends by result (sent, mail_failed).
	OTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushire_otp_requests_total",
		Help: "Total number of OTP send attempts by result",
	}, []string{"result"})

	// ModerationDecisions counts committed moderation transitions.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushire_moderation_decisions_total",
		Help: "Total number of moderation decisions by entity and action",
	}, []string{"entity", "action"})

	// AIFallbacks counts responses served from deterministic fallbacks
	// instead of the text-generation backend.
	AIFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushire_ai_fallbacks_total",
		Help: "Total number of AI responses replaced by fallbacks",
	}, []string{"feature"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campushire_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationConnections is the gauge of open notification websockets.
	NotificationConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campushire_notification_connections",
		Help: "Number of open notification WebSocket connections",
	})

	// NotificationDrops counts notifications dropped by slow or closed clients.
	NotificationDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushire_notification_drops_total",
		Help: "Total number of notification messages dropped",
	}, []string{"reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
