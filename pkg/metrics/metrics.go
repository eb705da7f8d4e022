package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Business metrics
	RidesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rides_total",
			Help: "Total number of ride status transitions",
		},
		[]string{"status"},
	)

	DispatchAcceptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_accepts_total",
			Help: "Accept attempts by outcome (won or lost the race)",
		},
		[]string{"outcome"},
	)

	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"exchange", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics.
func RecordHTTPMetrics(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordRideStatus counts a successful ride transition.
func RecordRideStatus(status string) {
	RidesTotal.WithLabelValues(status).Inc()
}

// RecordDispatchAccept counts an accept attempt outcome.
func RecordDispatchAccept(won bool) {
	outcome := "won"
	if !won {
		outcome = "lost"
	}
	DispatchAcceptsTotal.WithLabelValues(outcome).Inc()
}

// RecordRabbitMQPublish records a publish attempt.
func RecordRabbitMQPublish(exchange string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(exchange, status).Inc()
}
