package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
	"github.com/ai-stats/ai-stats-go/providers/observability"
)

// Option configures New.
type Option func(*options)

type options struct {
	baseURL     string
	timeout     time.Duration
	httpClient  *http.Client
	header      http.Header
	transport   transport.Transport
	middlewares []transport.Middleware
	devtools    *devtools.Config
	recorder    *devtools.Recorder
	observer    observability.Provider
	logger      *slog.Logger
}

// WithBaseURL points the client at another gateway deployment.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithTimeout bounds each sync call and the wait for stream headers.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithHeader adds a header to every request sent by the default transport.
func WithHeader(key, value string) Option {
	return func(o *options) {
		if o.header == nil {
			o.header = make(http.Header)
		}
		o.header.Set(key, value)
	}
}

// WithTransport replaces the HTTP transport. Base URL, timeout, header and
// HTTP client options are then ignored.
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithMiddleware wraps the transport. The first middleware is the outermost.
// Telemetry is captured above the whole chain.
func WithMiddleware(middlewares ...transport.Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, middlewares...) }
}

// WithDevtools configures local call capture. Without it capture is off
// unless AI_STATS_DEVTOOLS turns it on.
func WithDevtools(cfg devtools.Config) Option {
	return func(o *options) { o.devtools = &cfg }
}

// WithRecorder shares an existing recorder, for example between clients
// writing to the same capture directory. It takes precedence over
// WithDevtools.
func WithRecorder(r *devtools.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithObserver enables spans, metrics and logs for every call.
func WithObserver(p observability.Provider) Option {
	return func(o *options) { o.observer = p }
}

// WithLogger sets the logger for client diagnostics and recorder warnings.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
