package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/dvue/pkg/server"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dvue").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is where the metrics are registered. If it is also a
	// prometheus.Gatherer, Handler serves from it.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "dvue",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one server.
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	eventErrors    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors. Registering twice on the same
// registry panics, so create one Metrics per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}

	m := &Metrics{
		eventsTotal: factory.NewCounterVec(
			counter("events_total", "Total number of client events processed"),
			[]string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Event processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		eventErrors: factory.NewCounterVec(
			counter("event_errors_total", "Total number of event processing errors"),
			[]string{"error_type"}),

		patchesSent: factory.NewCounter(
			counter("patches_sent_total", "Total number of patches sent to clients")),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of live sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: factory.NewCounter(
			counter("sessions_total", "Total number of sessions created")),

		gatherer: prometheus.DefaultGatherer,
	}
	if g, ok := config.Registry.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Prometheus returns event middleware backed by a new Metrics.
func Prometheus(opts ...MetricsOption) server.EventMiddleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware times and counts every event.
func (m *Metrics) Middleware() server.EventMiddleware {
	return func(next server.EventHandler) server.EventHandler {
		return func(ec *server.EventContext) error {
			typ := ec.Event.Type
			start := time.Now()

			err := next(ec)

			m.eventDuration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
			status := "success"
			if err != nil {
				status = "error"
				m.eventErrors.WithLabelValues(categorizeError(err)).Inc()
			}
			m.eventsTotal.WithLabelValues(typ, status).Inc()
			m.patchesSent.Add(float64(ec.PatchCount))

			return err
		}
	}
}

// SessionStarted records a new session. It fits ServerConfig.OnSessionStart.
func (m *Metrics) SessionStarted(*server.Session) {
	m.sessionsTotal.Inc()
	m.activeSessions.Inc()
}

// SessionClosed records a closed session. It fits ServerConfig.OnSessionClose.
func (m *Metrics) SessionClosed(*server.Session) {
	m.activeSessions.Dec()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// categorizeError maps an error to a low-cardinality label.
func categorizeError(err error) string {
	var handlerErr *server.HandlerError
	switch {
	case errors.Is(err, server.ErrNodeNotFound):
		return "not_found"
	case errors.As(err, &handlerErr):
		return "panic"
	case errors.Is(err, server.ErrSessionClosed):
		return "closed"
	default:
		return "internal"
	}
}
