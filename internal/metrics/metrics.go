// Package metrics provides Prometheus metrics for the game loop.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/katana/internal/game"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers the metrics on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// Manager owns the pipeline collectors. A nil *Manager is valid and records
// nothing, so callers never need to check whether metrics are enabled.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	detections   *prometheus.CounterVec
	events       *prometheus.CounterVec
	combos       prometheus.Counter
	gamesOver    *prometheus.CounterVec
	liveTargets  prometheus.Gauge
	score        prometheus.Gauge
	dropped      *prometheus.CounterVec
}

// NewManager creates the collectors on a private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "katana",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.ticks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ticks_total",
		Help:      "Total number of pipeline ticks executed",
	})
	m.tickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "tick_duration_seconds",
		Help:      "Time spent in one capture-to-snapshot tick",
		Buckets:   []float64{.001, .0025, .005, .01, .02, .033, .05, .1, .25},
	})
	m.detections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "hand_ticks_total",
		Help:      "Ticks by stabilized hand status (fresh, held, none)",
	}, []string{"status"})
	m.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_total",
		Help:      "Target events by type",
	}, []string{"type"})
	m.combos = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "combos_total",
		Help:      "Combo bonuses awarded",
	})
	m.gamesOver = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "games_over_total",
		Help:      "Finished games by end cause",
	}, []string{"cause"})
	m.liveTargets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "live_targets",
		Help:      "Targets currently in play",
	})
	m.score = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "score",
		Help:      "Score of the current session",
	})
	m.dropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "dropped_total",
		Help:      "Items dropped because a subscriber queue was full",
	}, []string{"queue"})

	return m
}

// ObserveTick records one finished tick.
func (m *Manager) ObserveTick(snap game.Snapshot, took time.Duration) {
	if m == nil {
		return
	}

	m.ticks.Inc()
	m.tickDuration.Observe(took.Seconds())

	switch {
	case snap.HandStale:
		m.detections.WithLabelValues("held").Inc()
	case snap.HandHeld:
		m.detections.WithLabelValues("fresh").Inc()
	default:
		m.detections.WithLabelValues("none").Inc()
	}

	for _, ev := range snap.Events {
		m.events.WithLabelValues(ev.Type.String()).Inc()
	}
	if snap.Combo {
		m.combos.Inc()
	}
	m.liveTargets.Set(float64(len(snap.Targets)))
	m.score.Set(float64(snap.Score))
}

// GameOver records a finished game.
func (m *Manager) GameOver(cause game.EndCause) {
	if m == nil {
		return
	}
	m.gamesOver.WithLabelValues(cause.String()).Inc()
}

// Dropped records an item dropped from the named queue.
func (m *Manager) Dropped(queue string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(queue).Inc()
}

// Registry returns the registry holding the collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
