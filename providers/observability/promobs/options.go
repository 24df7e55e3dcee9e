package promobs

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures New.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	buckets    []float64
	logger     *slog.Logger
}

// WithRegistry registers and gathers metrics on reg instead of the default
// Prometheus registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = reg
	}
}

// WithBuckets sets histogram buckets. Defaults to prometheus.DefBuckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// WithLogger sets where dropped observations are reported. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) *options {
	o := &options{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		buckets:    prometheus.DefBuckets,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
