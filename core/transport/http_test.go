package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-stats/ai-stats-go/internal/version"
)

// TestHTTPTransport_Do_SendsHeadersQueryAndJSONBody verifies the outgoing
// request shape.
func TestHTTPTransport_Do_SendsHeadersQueryAndJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("debug"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, version.UserAgent(), r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-5-nano", body["model"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"gen_1"}`)
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL+"/v1/", "sk-test", WithHeader("X-Extra", "yes"))
	assert.Equal(t, server.URL+"/v1", tr.BaseURL())

	res, err := tr.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		Query:  url.Values{"debug": {"1"}},
		Body:   map[string]any{"model": "openai/gpt-5-nano"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"id":"gen_1"}`, string(res.Body))
}

// TestHTTPTransport_Do_JSONError_ReturnsAPIError verifies the message is
// taken from error.message and the status is preserved.
func TestHTTPTransport_Do_JSONError_ReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"auth"}}`)
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, "bad").Do(context.Background(), &Request{Path: "/models"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.Message)
	assert.Equal(t, "APIError", apiErr.Kind())
	assert.Equal(t, "non-2xx status 401: invalid api key", err.Error())

	code, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)
}

// TestHTTPTransport_Do_HTMLError_RendersReadableText verifies HTML error pages
// become plain text rather than raw markup.
func TestHTTPTransport_Do_HTMLError_RendersReadableText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html><body><h1>502 Bad Gateway</h1><p>upstream unavailable</p></body></html>")
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, "k").Do(context.Background(), &Request{Path: "/health"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "502 Bad Gateway")
	assert.Contains(t, apiErr.Message, "upstream unavailable")
	assert.NotContains(t, apiErr.Message, "<h1>")
}

// TestHTTPTransport_Do_EmptyErrorBody_UsesStatusText verifies the fallback.
func TestHTTPTransport_Do_EmptyErrorBody_UsesStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, "k").Do(context.Background(), &Request{Path: "/health"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Service Unavailable", apiErr.Message)
}

// TestHTTPTransport_Do_ConnectionRefused_ReturnsConnectionError verifies
// dial failures are classified.
func TestHTTPTransport_Do_ConnectionRefused_ReturnsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	_, err := NewHTTPTransport(base, "k").Do(context.Background(), &Request{Path: "/health"})

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.False(t, connErr.Timeout)
	assert.Equal(t, "ConnectionError", connErr.Kind())
	_, ok := StatusCode(err)
	assert.False(t, ok)
}

// TestHTTPTransport_Do_Timeout_ReturnsTimeoutError verifies the configured
// timeout bounds sync calls.
func TestHTTPTransport_Do_Timeout_ReturnsTimeoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "k", WithTimeout(20*time.Millisecond))
	_, err := tr.Do(context.Background(), &Request{Path: "/health"})

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, connErr.Timeout)
	assert.Equal(t, "TimeoutError", connErr.Kind())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// TestHTTPTransport_Do_Multipart_SendsFormData verifies file uploads.
func TestHTTPTransport_Do_Multipart_SendsFormData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "batch", r.FormValue("purpose"))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "requests.jsonl", header.Filename)
		assert.Equal(t, "line\n", string(data))
		fmt.Fprint(w, `{"id":"file_1"}`)
	}))
	defer server.Close()

	res, err := NewHTTPTransport(server.URL, "k").Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/files",
		Body: &Multipart{
			Fields: map[string]string{"purpose": "batch"},
			Files:  []File{{Field: "file", Filename: "requests.jsonl", Content: strings.NewReader("line\n")}},
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"file_1"}`, string(res.Body))
}

// TestHTTPTransport_Stream_Success_ReturnsOpenBody verifies the body is handed
// over unread.
func TestHTTPTransport_Stream_Success_ReturnsOpenBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {}\n\ndata: [DONE]\n\n")
	}))
	defer server.Close()

	res, err := NewHTTPTransport(server.URL, "k").Stream(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		Body:   map[string]any{"stream": true},
	})
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: {}\n\ndata: [DONE]\n\n", string(data))
}

// TestHTTPTransport_Stream_Rejected_ReturnsAPIErrorWithStatus verifies the
// status is known before any line is read.
func TestHTTPTransport_Stream_Rejected_ReturnsAPIErrorWithStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message":"rate limited"}`)
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, "k").Stream(context.Background(), &Request{Method: http.MethodPost, Path: "/responses"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limited", apiErr.Message)
}

// TestHTTPTransport_Stream_HeaderTimeout_ReturnsTimeoutError verifies the
// timeout covers the wait for headers.
func TestHTTPTransport_Stream_HeaderTimeout_ReturnsTimeoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "k", WithTimeout(20*time.Millisecond))
	_, err := tr.Stream(context.Background(), &Request{Method: http.MethodPost, Path: "/messages"})

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, connErr.Timeout)
}

// TestHTTPTransport_Stream_TimeoutAfterHeaders_DoesNotCutBody verifies a slow
// body is not interrupted once headers have arrived.
func TestHTTPTransport_Stream_TimeoutAfterHeaders_DoesNotCutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: first\n")
		w.(http.Flusher).Flush()
		time.Sleep(80 * time.Millisecond)
		fmt.Fprint(w, "data: second\n")
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "k", WithTimeout(20*time.Millisecond))
	res, err := tr.Stream(context.Background(), &Request{Method: http.MethodPost, Path: "/chat/completions"})
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: first\ndata: second\n", string(data))
}
