package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Transport sends requests to the gateway.
type Transport interface {
	// Do sends req and returns the complete response. A non-2xx status is
	// returned as *APIError.
	Do(ctx context.Context, req *Request) (*Response, error)

	// Stream sends req and returns the response with its body still open.
	// The caller must close StreamResponse.Body. A non-2xx status is
	// returned as *APIError before any of the body is handed over.
	Stream(ctx context.Context, req *Request) (*StreamResponse, error)
}

// Request describes one gateway call. Path is relative to the base URL and
// must already have its parameters escaped.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is sent as JSON unless it is a *Multipart. Nil means no body.
	Body any
}

// Multipart is a multipart/form-data request body.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// File is one uploaded part of a Multipart body.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StreamResponse is a 2xx response whose body has not been read.
type StreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Middleware wraps a Transport to observe or alter its calls.
type Middleware func(next Transport) Transport

// Chain wraps base with middlewares. The first middleware is the outermost:
// it sees a call first and its outcome last.
func Chain(base Transport, middlewares ...Middleware) Transport {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			base = middlewares[i](base)
		}
	}
	return base
}

// Funcs adapts a pair of functions to Transport. A nil field falls through
// to Next.
type Funcs struct {
	Next       Transport
	DoFunc     func(ctx context.Context, req *Request) (*Response, error)
	StreamFunc func(ctx context.Context, req *Request) (*StreamResponse, error)
}

// Do implements Transport.
func (f Funcs) Do(ctx context.Context, req *Request) (*Response, error) {
	if f.DoFunc != nil {
		return f.DoFunc(ctx, req)
	}
	return f.Next.Do(ctx, req)
}

// Stream implements Transport.
func (f Funcs) Stream(ctx context.Context, req *Request) (*StreamResponse, error) {
	if f.StreamFunc != nil {
		return f.StreamFunc(ctx, req)
	}
	return f.Next.Stream(ctx, req)
}
