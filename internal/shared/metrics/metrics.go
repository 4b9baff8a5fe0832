package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "town"

// Metrics 进程内的 prometheus 指标集合，自带 registry，测试里可以各建一份互不干扰。
type Metrics struct {
	registry *prometheus.Registry

	Commands         *prometheus.CounterVec
	Ticks            prometheus.Counter
	TickDuration     prometheus.Histogram
	ResourcesGranted *prometheus.CounterVec
	Broadcasts       *prometheus.CounterVec
	BroadcastDrops   prometheus.Counter
	Connections      prometheus.Gauge
	PendingBuilds    prometheus.Gauge
	JournalErrors    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Player commands handled, by command and result.",
		}, []string{"command", "result"}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "production_ticks_total",
			Help:      "Production tick passes run.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "production_tick_seconds",
			Help:      "Wall time of one production tick pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		ResourcesGranted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_granted_total",
			Help:      "Resources credited by the production tick.",
		}, []string{"resource"}),
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Events fanned out to connected clients, by event type.",
		}, []string{"type"}),
		BroadcastDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_drops_total",
			Help:      "Frames not delivered because a connection queue was full or closed.",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open websocket connections.",
		}),
		PendingBuilds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "construction_pending",
			Help:      "Buildings with an armed completion timer.",
		}),
		JournalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_errors_total",
			Help:      "Event journal writes that failed.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Commands, m.Ticks, m.TickDuration, m.ResourcesGranted,
		m.Broadcasts, m.BroadcastDrops, m.Connections, m.PendingBuilds, m.JournalErrors,
	)
	return m
}

// Handler 暴露 /metrics。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CommandResult 记一次命令结果，m 为 nil 时什么都不做。
func (m *Metrics) CommandResult(command string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Commands.WithLabelValues(command, result).Inc()
}
