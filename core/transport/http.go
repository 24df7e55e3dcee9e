package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ai-stats/ai-stats-go/internal/utils"
	"github.com/ai-stats/ai-stats-go/internal/version"
)

// DefaultBaseURL is the public gateway.
const DefaultBaseURL = "https://api.phaseo.app/v1"

// errHeaderTimeout is the cancel cause used when a stream does not deliver
// its headers within the configured timeout.
var errHeaderTimeout = context.DeadlineExceeded

// HTTPTransport implements Transport over net/http.
type HTTPTransport struct {
	baseURL   string
	apiKey    string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	header    http.Header
}

var _ Transport = (*HTTPTransport)(nil)

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTimeout bounds every sync call, and the wait for response headers on
// streaming calls. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) { t.timeout = d }
}

// WithUserAgent overrides the default ai-stats-go/<version> agent.
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) { t.userAgent = ua }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(t *HTTPTransport) { t.header.Set(key, value) }
}

// NewHTTPTransport returns a transport for baseURL (DefaultBaseURL when
// empty) authenticating with apiKey as a bearer token.
func NewHTTPTransport(baseURL, apiKey string, opts ...Option) *HTTPTransport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	t := &HTTPTransport{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: version.UserAgent(),
		client:    http.DefaultClient,
		header:    make(http.Header),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the normalized base URL.
func (t *HTTPTransport) BaseURL() string { return t.baseURL }

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	httpReq, err := t.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	res, body, err := utils.DoRequest(ctx, t.client, httpReq)
	if err != nil {
		return nil, newConnectionError(httpReq.Method, httpReq.URL.String(), err, false)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, newAPIError(res, body)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
}

// Stream implements Transport. The timeout only covers the wait for response
// headers; once the body is handed over the stream may run as long as the
// caller keeps reading and ctx stays alive.
func (t *HTTPTransport) Stream(ctx context.Context, req *Request) (*StreamResponse, error) {
	streamCtx, cancel := context.WithCancelCause(ctx)
	var headerTimer *time.Timer
	if t.timeout > 0 {
		headerTimer = time.AfterFunc(t.timeout, func() { cancel(errHeaderTimeout) })
	}
	stopTimer := func() {
		if headerTimer != nil {
			headerTimer.Stop()
		}
	}

	httpReq, err := t.newRequest(streamCtx, req)
	if err != nil {
		stopTimer()
		cancel(nil)
		return nil, err
	}

	res, errBody, err := utils.DoStream(streamCtx, t.client, httpReq)
	stopTimer()
	if err != nil && res == nil {
		timedOut := context.Cause(streamCtx) == errHeaderTimeout
		cancel(nil)
		return nil, newConnectionError(httpReq.Method, httpReq.URL.String(), err, timedOut)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// errBody is nil when the error body itself could not be read.
		cancel(nil)
		return nil, newAPIError(res, errBody)
	}

	return &StreamResponse{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       &cancelOnClose{ReadCloser: res.Body, cancel: func() { cancel(nil) }},
	}, nil
}

func (t *HTTPTransport) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := t.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := req.Body.(type) {
	case nil:
	case *Multipart:
		files := make([]utils.MultipartFile, 0, len(b.Files))
		for _, f := range b.Files {
			files = append(files, utils.MultipartFile{
				Field:       f.Field,
				Filename:    f.Filename,
				ContentType: f.ContentType,
				Content:     f.Content,
			})
		}
		buf, ct, err := utils.BuildMultipart(b.Fields, files)
		if err != nil {
			return nil, fmt.Errorf("error building multipart body: %w", err)
		}
		body, contentType = buf, ct
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("error marshaling body: %w", err)
		}
		body, contentType = bytes.NewReader(encoded), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)
	if t.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, values := range t.header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	for key, values := range req.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	return httpReq, nil
}

// cancelOnClose releases the stream context when the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel func()
	once   sync.Once
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.once.Do(c.cancel)
	return err
}
