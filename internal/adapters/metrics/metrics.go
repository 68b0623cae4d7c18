// Package metrics exports the realtime core's signals to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livecast"

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Realtime implements core.Metrics.
type Realtime struct {
	ActiveSessions    prometheus.Gauge
	ActiveConnections prometheus.Gauge
	Rejected          *prometheus.CounterVec
	Delivered         prometheus.Counter
	Evicted           prometheus.Counter
	PublishDuration   prometheus.Histogram
	ChatMessages      prometheus.Counter
	BanEvictions      prometheus.Counter
}

func New(reg prometheus.Registerer) *Realtime {
	m := &Realtime{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "active_sessions",
			Help:      "Number of sessions with at least one connection.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "active_connections",
			Help:      "Number of attached realtime connections.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "rejected_total",
			Help:      "Connections refused before attach, by reason.",
		}, []string{"reason"}),
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "delivered_total",
			Help:      "Frames handed to sockets successfully.",
		}),
		Evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "evicted_total",
			Help:      "Connections evicted after a failed send.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "publish_duration_seconds",
			Help:      "Time to fan one event out to a session.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5},
		}),
		ChatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Chat messages persisted and broadcast.",
		}),
		BanEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "moderation",
			Name:      "ban_evictions_total",
			Help:      "Connections closed because of a ban.",
		}),
	}

	reg.MustRegister(
		m.ActiveSessions, m.ActiveConnections, m.Rejected,
		m.Delivered, m.Evicted, m.PublishDuration,
		m.ChatMessages, m.BanEvictions,
	)
	return m
}

func (m *Realtime) SessionOpened()                   { m.ActiveSessions.Inc() }
func (m *Realtime) SessionClosed()                   { m.ActiveSessions.Dec() }
func (m *Realtime) ConnectionAttached()              { m.ActiveConnections.Inc() }
func (m *Realtime) ConnectionDetached()              { m.ActiveConnections.Dec() }
func (m *Realtime) ConnectionRejected(reason string) { m.Rejected.WithLabelValues(reason).Inc() }
func (m *Realtime) ChatAccepted()                    { m.ChatMessages.Inc() }
func (m *Realtime) BanEvicted(n int)                 { m.BanEvictions.Add(float64(n)) }

func (m *Realtime) Published(delivered, evicted int, took time.Duration) {
	m.Delivered.Add(float64(delivered))
	m.Evicted.Add(float64(evicted))
	m.PublishDuration.Observe(took.Seconds())
}
