// Package metrics exposes resource factory activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives factory events. Implementations must be safe for
// concurrent use.
type Collector interface {
	ResourceCreated(kind string, duration time.Duration)
	ResourceReused(kind string)
	ResourceClosed(kind string, err error)
	CreateFailed(kind, reason string)
	RetryAttempt(operation string)
	RetriesExhausted(operation string)
	FallbackTriggered(message string)
}

// Noop discards every event.
type Noop struct{}

func (Noop) ResourceCreated(string, time.Duration) {}
func (Noop) ResourceReused(string)                 {}
func (Noop) ResourceClosed(string, error)          {}
func (Noop) CreateFailed(string, string)           {}
func (Noop) RetryAttempt(string)                   {}
func (Noop) RetriesExhausted(string)               {}
func (Noop) FallbackTriggered(string)              {}

// PrometheusCollector implements Collector on a private registry.
type PrometheusCollector struct {
	created        *prometheus.CounterVec
	createDuration *prometheus.HistogramVec
	reused         *prometheus.CounterVec
	closed         *prometheus.CounterVec
	failures       *prometheus.CounterVec
	retries        *prometheus.CounterVec
	exhausted      *prometheus.CounterVec
	fallbacks      prometheus.Counter

	registry *prometheus.Registry
}

// NewPrometheusCollector creates a collector whose metrics are prefixed
// with namespace ("pwfactory" when empty).
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	if namespace == "" {
		namespace = "pwfactory"
	}

	pc := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
	}

	pc.created = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_created_total",
			Help:      "Total number of resources created",
		},
		[]string{"kind"},
	)

	pc.createDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resource_create_duration_seconds",
			Help:      "Duration of resource creation, including retries",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	pc.reused = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_reused_total",
			Help:      "Total number of create calls answered from the singleton registry",
		},
		[]string{"kind"},
	)

	pc.closed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_closed_total",
			Help:      "Total number of resources closed",
		},
		[]string{"kind", "status"},
	)

	pc.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_create_failures_total",
			Help:      "Total number of failed create calls",
		},
		[]string{"kind", "reason"},
	)

	pc.retries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_attempts_total",
			Help:      "Total number of retried attempts",
		},
		[]string{"operation"},
	)

	pc.exhausted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_exhausted_total",
			Help:      "Total number of operations that failed every attempt",
		},
		[]string{"operation"},
	)

	pc.fallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Total number of best-effort steps that failed and were absorbed",
		},
	)

	pc.registry.MustRegister(
		pc.created,
		pc.createDuration,
		pc.reused,
		pc.closed,
		pc.failures,
		pc.retries,
		pc.exhausted,
		pc.fallbacks,
	)

	return pc
}

// ResourceCreated records a successful creation
func (pc *PrometheusCollector) ResourceCreated(kind string, duration time.Duration) {
	pc.created.WithLabelValues(kind).Inc()
	pc.createDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ResourceReused records a create call served by a cached handle
func (pc *PrometheusCollector) ResourceReused(kind string) {
	pc.reused.WithLabelValues(kind).Inc()
}

// ResourceClosed records a close call
func (pc *PrometheusCollector) ResourceClosed(kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	pc.closed.WithLabelValues(kind, status).Inc()
}

// CreateFailed records a failed create call
func (pc *PrometheusCollector) CreateFailed(kind, reason string) {
	pc.failures.WithLabelValues(kind, reason).Inc()
}

// RetryAttempt records a retried attempt
func (pc *PrometheusCollector) RetryAttempt(operation string) {
	pc.retries.WithLabelValues(operation).Inc()
}

// RetriesExhausted records an operation that never succeeded
func (pc *PrometheusCollector) RetriesExhausted(operation string) {
	pc.exhausted.WithLabelValues(operation).Inc()
}

// FallbackTriggered records an absorbed best-effort failure. The message
// stays in the log; it is not a label.
func (pc *PrometheusCollector) FallbackTriggered(string) {
	pc.fallbacks.Inc()
}

// Registry returns the registry the metrics are registered on.
func (pc *PrometheusCollector) Registry() *prometheus.Registry {
	return pc.registry
}

// WriteSummary writes one line per recorded series to w. Histograms are
// reduced to their sample count and sum.
func (pc *PrometheusCollector) WriteSummary(w io.Writer) error {
	families, err := pc.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, family := range families {
		for _, m := range family.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			labels := ""
			if len(pairs) > 0 {
				labels = "{" + strings.Join(pairs, ",") + "}"
			}

			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s%s %g", family.GetName(), labels, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines,
					fmt.Sprintf("%s_count%s %d", family.GetName(), labels, h.GetSampleCount()),
					fmt.Sprintf("%s_sum%s %g", family.GetName(), labels, h.GetSampleSum()),
				)
			}
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
