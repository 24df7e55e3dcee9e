package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ai-stats/ai-stats-go/providers/observability"
)

// MaxLineSize is the longest single stream line LineScanner accepts (1 MB).
// bufio.Scanner's 64 KiB default is too small for large completion chunks.
const MaxLineSize = 1 * 1024 * 1024

// DoStream sends req and, on a 2xx status, returns the response with its body
// left open for the caller to read and close. On any other status the body is
// read (capped at MaxResponseBodySize), closed, and returned as errBody so the
// caller can build an error from it; err stays nil in that case.
func DoStream(ctx context.Context, client *http.Client, req *http.Request) (res *http.Response, errBody []byte, err error) {
	span := observability.SpanFromContext(ctx)
	if client == nil {
		client = http.DefaultClient
	}

	req.Header.Set("Accept", "text/event-stream")
	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, req.Method),
			observability.String(observability.AttrHTTPURL, req.URL.String()),
			observability.Int64(observability.AttrHTTPRequestBodySize, req.ContentLength),
			observability.Bool(observability.AttrStream, true),
		)
	}

	start := time.Now()
	res, err = client.Do(req.WithContext(ctx))
	elapsed := time.Since(start)
	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPRequestError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, elapsed),
			)
		}
		return nil, nil, fmt.Errorf("error sending stream request: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer CloseWithLog(res.Body)
		errBody, readErr := io.ReadAll(io.LimitReader(res.Body, MaxResponseBodySize))
		if readErr != nil {
			return res, nil, fmt.Errorf("error reading error body (status %d): %w", res.StatusCode, readErr)
		}
		return res, errBody, nil
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPStreamStarted,
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	}
	return res, nil, nil
}

// LineScanner yields the non-empty lines of a stream body verbatim. It does
// not interpret SSE fields and does not treat "data: [DONE]" specially.
type LineScanner struct {
	scanner *bufio.Scanner
}

// NewLineScanner wraps r. Lines longer than MaxLineSize make Next fail with an
// error wrapping bufio.ErrTooLong.
func NewLineScanner(r io.Reader) *LineScanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &LineScanner{scanner: scanner}
}

// Next returns the next non-empty line without its terminator, or io.EOF
// once the body is exhausted.
func (s *LineScanner) Next() (string, error) {
	for s.scanner.Scan() {
		if line := s.scanner.Text(); line != "" {
			return line, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("stream read error: %w", err)
	}
	return "", io.EOF
}
