package factory

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/entrhq/pwfactory/pkg/config"
	"github.com/entrhq/pwfactory/pkg/failsafe"
	"github.com/entrhq/pwfactory/pkg/metrics"
	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/registry"
)

// Logger is the logging surface the factory writes to.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Option configures a Factory
type Option func(*Factory)

// WithLogger sets the logger
func WithLogger(l Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(c metrics.Collector) Option {
	return func(f *Factory) {
		f.metrics = c
	}
}

// WithTracerProvider sets the provider spans are started from
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Factory) {
		f.tracer = tp.Tracer(instrumentationName)
	}
}

// WithEnvironmentRetry sets the retry policy guarding environment bootstrap
func WithEnvironmentRetry(p failsafe.Policy) Option {
	return func(f *Factory) {
		f.bootstrapPolicy = p
	}
}

// WithDefaults replaces the last tier of option resolution
func WithDefaults(d options.Defaults) Option {
	return func(f *Factory) {
		f.defaults = d
	}
}

// WithConfig applies the defaults and bootstrap retry settings of cfg
func WithConfig(cfg *config.Config) Option {
	return func(f *Factory) {
		f.defaults = cfg.Defaults
		f.bootstrapPolicy = failsafe.Policy{
			Delay:       cfg.Retry.Delay,
			MaxAttempts: cfg.Retry.MaxAttempts,
		}
	}
}

// WithStore shares a worker store between factories
func WithStore(s *registry.Store) Option {
	return func(f *Factory) {
		f.store = s
	}
}
