package promobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ai-stats/ai-stats-go/providers/observability"
	"github.com/ai-stats/ai-stats-go/providers/observability/slogobs"
)

// Provider sends metrics to Prometheus and everything else to a wrapped
// provider.
type Provider struct {
	observability.Tracer
	observability.Logger

	opts *options

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Provider = (*Provider)(nil)

// New wraps base. A nil base discards spans and logs.
func New(base observability.Provider, opts ...Option) *Provider {
	if base == nil {
		base = slogobs.New(slogobs.WithLogger(slog.New(slog.DiscardHandler)))
	}
	return &Provider{
		Tracer:     base,
		Logger:     base,
		opts:       buildOptions(opts),
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

// Handler serves the gathered metrics in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.opts.gatherer, promhttp.HandlerOpts{})
}

func (p *Provider) Counter(name string) observability.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		c = &counter{family: family{name: counterName(name), provider: p}}
		p.counters[name] = c
	}
	return c
}

func (p *Provider) Histogram(name string) observability.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		h = &histogram{family: family{name: histogramName(name), provider: p}}
		p.histograms[name] = h
	}
	return h
}

// register adds c to the registerer, returning the collector already
// registered under the same descriptor when there is one.
func (p *Provider) register(c prometheus.Collector) prometheus.Collector {
	err := p.opts.registerer.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return already.ExistingCollector
	}
	p.opts.logger.Warn("promobs: metric not registered", slog.String("error", err.Error()))
	return c
}

// family holds what counters and histograms share: the exported name and the
// label keys fixed by the first observation.
type family struct {
	name     string
	provider *Provider

	mu   sync.Mutex
	keys []string
}

// resolve returns the label values for attrs. The first call fixes the label
// keys and runs create with them. ok is false when later keys differ.
func (f *family) resolve(attrs []observability.Attribute, create func(keys []string)) (values []string, ok bool) {
	keys := make([]string, len(attrs))
	values = make([]string, len(attrs))
	for i, attr := range attrs {
		keys[i] = sanitize(attr.Key)
		values[i] = fmt.Sprint(attr.Value)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys == nil {
		f.keys = keys
		create(keys)
		return values, true
	}
	return values, slices.Equal(f.keys, keys)
}

func (f *family) drop(ctx context.Context, reason string, attrs []observability.Attribute) {
	keys := make([]string, len(attrs))
	for i, attr := range attrs {
		keys[i] = attr.Key
	}
	f.provider.opts.logger.WarnContext(ctx, "promobs: observation dropped",
		slog.String("metric", f.name),
		slog.String("reason", reason),
		slog.Any("labels", keys),
	)
}

type counter struct {
	family
	vec *prometheus.CounterVec
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		c.drop(ctx, "negative counter increment", attrs)
		return
	}
	values, ok := c.resolve(attrs, func(keys []string) {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: c.name,
			Help: "AI Stats client counter " + c.name,
		}, keys)
		if existing, ok := c.provider.register(vec).(*prometheus.CounterVec); ok {
			vec = existing
		}
		c.vec = vec
	})
	if !ok {
		c.drop(ctx, "label mismatch", attrs)
		return
	}
	metric, err := c.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		c.drop(ctx, err.Error(), attrs)
		return
	}
	metric.Add(float64(value))
}

type histogram struct {
	family
	vec *prometheus.HistogramVec
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	values, ok := h.resolve(attrs, func(keys []string) {
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    h.name,
			Help:    "AI Stats client histogram " + h.name,
			Buckets: h.provider.opts.buckets,
		}, keys)
		if existing, ok := h.provider.register(vec).(*prometheus.HistogramVec); ok {
			vec = existing
		}
		h.vec = vec
	})
	if !ok {
		h.drop(ctx, "label mismatch", attrs)
		return
	}
	metric, err := h.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		h.drop(ctx, err.Error(), attrs)
		return
	}
	metric.Observe(value)
}

// counterName maps "aistats.client.requests" to "aistats_client_requests_total".
func counterName(name string) string {
	n := sanitize(name)
	if !strings.HasSuffix(n, "_total") {
		n += "_total"
	}
	return n
}

// histogramName adds the base unit to duration metrics, which are recorded
// in seconds.
func histogramName(name string) string {
	n := sanitize(name)
	if strings.HasSuffix(n, "duration") {
		n += "_seconds"
	}
	return n
}

func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
