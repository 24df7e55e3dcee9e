package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by New when no credential is given.
	ErrMissingAPIKey = errors.New("ai-stats: api key is required")

	// ErrInvalidRequest is returned when a request does not encode to a JSON
	// object. Nothing is sent and nothing is recorded.
	ErrInvalidRequest = errors.New("ai-stats: invalid request")

	// ErrNotStreamable is returned by Stream for endpoints without a
	// streaming variant.
	ErrNotStreamable = errors.New("ai-stats: endpoint does not support streaming")

	// ErrStreamConsumed is yielded when a LineStream is iterated a second time.
	ErrStreamConsumed = errors.New("ai-stats: stream already consumed")

	// ErrStreamClosed is yielded when iterating a LineStream closed before
	// its first read.
	ErrStreamClosed = errors.New("ai-stats: stream closed")
)

// DecodeError is returned when a 2xx response body does not match the
// expected shape.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind names the error in telemetry entries.
func (e *DecodeError) Kind() string { return "DecodeError" }

// StreamError is yielded when a stream breaks after it was opened. Chunks
// is the number of lines delivered before the failure.
type StreamError struct {
	Endpoint string
	Chunks   int
	Err      error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s stream interrupted after %d chunks: %v", e.Endpoint, e.Chunks, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// Kind names the error in telemetry entries.
func (e *StreamError) Kind() string { return "StreamError" }
