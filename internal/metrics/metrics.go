package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georush_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "georush_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// Realtime metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "georush_ws_connections_active",
			Help: "Currently open realtime connections",
		},
	)

	WSConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "georush_ws_connections_total",
			Help: "Total realtime connections accepted",
		},
	)

	WSRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georush_ws_rejected_total",
			Help: "Total realtime handshakes rejected",
		},
		[]string{"reason"}, // "origin" or "handshake"
	)

	WSEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georush_ws_events_received_total",
			Help: "Total realtime events received",
		},
		[]string{"event"},
	)

	WSEventsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georush_ws_events_sent_total",
			Help: "Total realtime events queued for delivery",
		},
		[]string{"event"},
	)
)
