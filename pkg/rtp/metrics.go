package rtp

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the Prometheus instrumentation for one engine instance:
// packets sent/received, packets dropped by the sequence filter, DTMF
// events emitted, and inactivity-watchdog fires. Grounded on the
// teacher's pkg/dialog.MetricsCollector, which wires the same
// promauto.New*/prometheus.CounterOpts pattern for SIP dialog counters
// — this is the RTP-layer analogue.
type Metrics struct {
	PacketsSent     prometheus.Counter
	PacketsReceived prometheus.Counter
	PacketsDropped  *prometheus.CounterVec // label "reason": version, short, reorder
	BytesSent       prometheus.Counter
	BytesReceived   prometheus.Counter
	DTMFEventsSent  *prometheus.CounterVec // label "encoding": rfc2833, audio
	DTMFEventsFail  prometheus.Counter
	WatchdogFires   prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// NewMetrics registers a fresh set of RTP metrics under the given
// namespace/subsystem. Use a distinct subsystem per engine instance if
// more than one is registered against the same prometheus.Registerer,
// to avoid a duplicate-registration panic from promauto.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		PacketsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_sent_total",
			Help:      "RTP datagrams sent.",
		}),
		PacketsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_received_total",
			Help:      "RTP datagrams accepted by the sequence filter.",
		}),
		PacketsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_dropped_total",
			Help:      "Inbound datagrams dropped, by reason.",
		}, []string{"reason"}),
		BytesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_sent_total",
			Help:      "Payload bytes sent, excluding RTP headers.",
		}),
		BytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_received_total",
			Help:      "Payload bytes received, excluding RTP headers.",
		}),
		DTMFEventsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dtmf_events_total",
			Help:      "DTMF events fully emitted, by encoding.",
		}, []string{"encoding"}),
		DTMFEventsFail: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dtmf_events_failed_total",
			Help:      "DTMF events drained without being sent because the peer negotiated neither RFC 2833 nor a fallback audio payload type.",
		}),
		WatchdogFires: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "watchdog_fires_total",
			Help:      "Inactivity watchdog firings resulting in call.bye().",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_sessions",
			Help:      "Session controllers currently running.",
		}),
	}
}

// DefaultMetrics returns a process-wide Metrics instance registered
// under namespace "rtp", subsystem "media", created on first use. Most
// callers that don't need per-instance isolation should use this
// rather than calling NewMetrics directly, to avoid duplicate
// registration panics when multiple sessions share a process.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics("rtp", "media")
	})
	return defaultMetrics
}
