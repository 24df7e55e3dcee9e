package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ai-stats/ai-stats-go/core/cost"
	"github.com/ai-stats/ai-stats-go/internal/version"
)

// Call describes one finished gateway call.
type Call struct {
	// Endpoint is the logical operation name, e.g. "chat.completions".
	Endpoint string
	// Request is the payload as transmitted.
	Request any
	// Started stamps the entry; zero means the capture time.
	Started  time.Time
	Duration time.Duration
	Stream   bool
	// ChunkCount and StatusCode are nil when unknown.
	ChunkCount *int
	StatusCode *int
	// Headers are the response headers, kept only with CaptureHeaders.
	Headers http.Header
}

// Recorder appends telemetry entries to a capture directory. It is safe for
// concurrent use, and a nil *Recorder is a disabled one.
type Recorder struct {
	enabled        bool
	dir            string
	captureHeaders bool
	saveAssets     bool
	pricing        cost.Table
	logger         *slog.Logger
	now            func() time.Time

	mu sync.Mutex
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets where write failures are reported. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPricing attaches an estimated metadata.cost to entries whose model is
// in table.
func WithPricing(table cost.Table) Option {
	return func(r *Recorder) { r.pricing = table }
}

// New builds a Recorder from cfg after applying the environment overrides.
// An enabled recorder creates its directory layout and metadata.json right
// away; a disabled one does nothing, now or later.
func New(cfg Config, opts ...Option) *Recorder {
	r := &Recorder{
		enabled:        resolveEnabled(cfg.Enabled),
		dir:            ResolveDirectory(cfg.Directory),
		captureHeaders: cfg.CaptureHeaders,
		saveAssets:     cfg.SaveAssets,
		pricing:        cfg.Pricing,
		logger:         slog.Default(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.enabled {
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.ensureLayout(); err != nil {
			r.warn(context.Background(), "devtools: failed to create capture directory", err)
			return r
		}
		if err := r.writeSessionMetadata(); err != nil {
			r.warn(context.Background(), "devtools: failed to write session metadata", err)
		}
	}
	return r
}

// Enabled reports whether calls are being captured.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// Directory is the resolved capture directory.
func (r *Recorder) Directory() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// CaptureSuccess records a call that returned response. For streams the
// response is the {"chunks": n} summary.
func (r *Recorder) CaptureSuccess(ctx context.Context, call Call, response any) {
	if !r.Enabled() {
		return
	}
	entry := r.newEntry(call)
	entry.Response = response
	r.append(ctx, entry, response)
}

// CaptureError records a call that failed with err.
func (r *Recorder) CaptureError(ctx context.Context, call Call, err error) {
	if !r.Enabled() {
		return
	}
	entry := r.newEntry(call)
	if err != nil {
		entry.Error = &ErrorInfo{Message: err.Error(), Type: ErrorKind(err)}
	}
	r.append(ctx, entry, nil)
}

func (r *Recorder) newEntry(call Call) *Entry {
	started := call.Started
	if started.IsZero() {
		started = r.now()
	}
	entry := &Entry{
		ID:         uuid.NewString(),
		Type:       call.Endpoint,
		Timestamp:  started.UnixMilli(),
		DurationMs: call.Duration.Milliseconds(),
		Request:    call.Request,
		Metadata: Metadata{
			SDK:        version.SDK,
			SDKVersion: version.Version,
			Stream:     call.Stream,
			ChunkCount: call.ChunkCount,
			StatusCode: call.StatusCode,
		},
	}
	if r.captureHeaders {
		entry.Metadata.Headers = flattenHeaders(call.Headers)
	}
	return entry
}

func (r *Recorder) append(ctx context.Context, entry *Entry, response any) {
	responseObj := asObject(response)
	entry.Metadata.Usage = extractUsage(responseObj)
	entry.Metadata.Model, entry.Metadata.Provider = extractModelProvider(responseObj, asObject(entry.Request))
	if r.pricing != nil {
		entry.Metadata.Cost = EstimateCost(entry, r.pricing)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		r.warn(ctx, "devtools: failed to encode entry", err, slog.String("endpoint", entry.Type))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLayout(); err != nil {
		r.warn(ctx, "devtools: failed to create capture directory", err)
		return
	}
	if err := appendLine(filepath.Join(r.dir, GenerationsFile), buf.Bytes()); err != nil {
		r.warn(ctx, "devtools: failed to append entry", err, slog.String("endpoint", entry.Type))
	}
}

// appendLine writes line with a single Write on an O_APPEND descriptor.
func appendLine(path string, line []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	_, err = f.Write(line)
	return err
}

func (r *Recorder) ensureLayout() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	if !r.saveAssets {
		return nil
	}
	for _, kind := range assetKinds {
		if err := os.MkdirAll(filepath.Join(r.dir, AssetsDir, kind), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// writeSessionMetadata creates metadata.json unless it already exists.
func (r *Recorder) writeSessionMetadata() error {
	meta := SessionMetadata{
		SessionID:  uuid.NewString(),
		StartedAt:  r.now().UnixMilli(),
		SDK:        version.SDK,
		SDKVersion: version.Version,
		Platform:   runtime.GOOS + "-" + runtime.GOARCH,
		GoVersion:  runtime.Version(),
	}
	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding session metadata: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(r.dir, MetadataFile), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(append(encoded, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Recorder) warn(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("dir", r.dir), slog.String("error", err.Error()))
	r.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}
