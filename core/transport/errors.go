package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/ai-stats/ai-stats-go/internal/utils"
)

// maxMessageLength bounds the human-readable part of an APIError.
const maxMessageLength = 500

// APIError is returned when the gateway answers with a non-2xx status.
type APIError struct {
	StatusCode int
	// Message is the readable reason extracted from Body.
	Message string
	Body    []byte
	Header  http.Header
}

func (e *APIError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Message)
}

// Kind names the error in telemetry entries.
func (e *APIError) Kind() string { return "APIError" }

// ConnectionError is returned when no response could be obtained: DNS or
// dial failures, resets, timeouts and cancellation.
type ConnectionError struct {
	Op      string
	URL     string
	Err     error
	Timeout bool
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Kind names the error in telemetry entries.
func (e *ConnectionError) Kind() string {
	if e.Timeout {
		return "TimeoutError"
	}
	return "ConnectionError"
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

func newAPIError(res *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode: res.StatusCode,
		Message:    errorMessage(res.StatusCode, res.Header.Get("Content-Type"), body),
		Body:       body,
		Header:     res.Header.Clone(),
	}
}

func newConnectionError(op, url string, err error, timedOut bool) *ConnectionError {
	if !timedOut {
		timedOut = errors.Is(err, context.DeadlineExceeded)
	}
	if !timedOut {
		var netErr net.Error
		timedOut = errors.As(err, &netErr) && netErr.Timeout()
	}
	return &ConnectionError{Op: op, URL: url, Err: err, Timeout: timedOut}
}

// errorMessage pulls a readable reason out of an error body. JSON bodies use
// error.message, error, message or detail; HTML pages are rendered to
// markdown; anything else is used as text.
func errorMessage(status int, contentType string, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}

	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		if msg := jsonMessage(payload); msg != "" {
			return utils.TruncateString(msg, maxMessageLength)
		}
		return utils.TruncateString(text, maxMessageLength)
	}

	if strings.Contains(contentType, "html") || strings.HasPrefix(text, "<") {
		if md, err := htmltomarkdown.ConvertString(text); err == nil && strings.TrimSpace(md) != "" {
			text = strings.Join(strings.Fields(md), " ")
		}
	}
	return utils.TruncateString(text, maxMessageLength)
}

func jsonMessage(payload map[string]any) string {
	switch e := payload["error"].(type) {
	case string:
		if e != "" {
			return e
		}
	case map[string]any:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg
		}
	}
	for _, key := range []string{"message", "detail"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}
