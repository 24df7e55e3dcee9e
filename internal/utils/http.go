package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ai-stats/ai-stats-go/providers/observability"
)

// MaxResponseBodySize caps how much of a response body is read into memory (10 MB).
const MaxResponseBodySize int64 = 10 * 1024 * 1024

// DoRequest sends req and reads the whole body, whatever the status code.
// The caller decides what a non-2xx status means. An error is returned only
// when the request could not be sent or the body could not be read; in the
// send case the error wraps the *url.Error from the client.
//
// When the context carries a span, prepared/error/received events are added
// to it.
func DoRequest(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, []byte, error) {
	span := observability.SpanFromContext(ctx)
	if client == nil {
		client = http.DefaultClient
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, req.Method),
			observability.String(observability.AttrHTTPURL, req.URL.String()),
			observability.Int64(observability.AttrHTTPRequestBodySize, req.ContentLength),
		)
	}

	start := time.Now()
	res, err := client.Do(req.WithContext(ctx))
	elapsed := time.Since(start)
	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPRequestError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, elapsed),
			)
		}
		return nil, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseBodySize))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPResponseReceived,
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(body)),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	}
	return res, body, nil
}

// CloseWithLog closes c and logs a failure at warn level.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
