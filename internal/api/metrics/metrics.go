// Package metrics defines all custom Prometheus metrics for the campus
// connect API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at init time via promauto;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus"

// MessagesSentTotal counts messages durably written.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages persisted.",
	},
)

// RealtimePushesTotal counts push attempts after a message write.
// Label:
//   - result: "delivered" (a live session took the event) or "skipped"
//     (no registry entry; the recipient recovers via history)
var RealtimePushesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_pushes_total",
		Help:      "Total realtime push attempts, labelled by delivery result.",
	},
	[]string{"result"},
)

// FollowsTotal counts follow edges added.
// Label:
//   - kind: the followee variant ("student" or "alumni")
var FollowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follows_total",
		Help:      "Total follow edges added, by followee kind.",
	},
	[]string{"kind"},
)

// PostsCreatedTotal counts forum posts created.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of forum posts created.",
	},
)

// WebsocketConnections tracks currently registered realtime sessions.
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Number of live websocket sessions in the connection registry.",
	},
)
