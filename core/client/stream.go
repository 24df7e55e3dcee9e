package client

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"sync"

	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
	"github.com/ai-stats/ai-stats-go/internal/utils"
)

// DoneLine terminates OpenAI-style event streams. LineStream yields it like
// any other line.
const DoneLine = "data: [DONE]"

type streamState int

const (
	streamReady streamState = iota
	streamIterating
	streamClosedEarly
)

// LineStream is a single-pass sequence of the non-empty lines of a
// streaming response. The connection is released when iteration ends, when
// the caller leaves the loop, or on Close, whichever comes first.
type LineStream struct {
	ctx     context.Context
	d       *Dispatcher
	call    devtools.Call
	res     *transport.StreamResponse
	scanner *utils.LineScanner
	timer   *utils.Timer
	obs     *observation

	mu      sync.Mutex
	state   streamState
	chunks  int
	closed  bool
	settled bool

	releaseOnce sync.Once
	releaseErr  error
}

func newLineStream(ctx context.Context, d *Dispatcher, call devtools.Call, res *transport.StreamResponse, timer *utils.Timer, obs *observation) *LineStream {
	return &LineStream{
		ctx:     ctx,
		d:       d,
		call:    call,
		res:     res,
		scanner: utils.NewLineScanner(res.Body),
		timer:   timer,
		obs:     obs,
	}
}

// StatusCode is the HTTP status of the response.
func (s *LineStream) StatusCode() int { return s.res.StatusCode }

// Header is the response header.
func (s *LineStream) Header() http.Header { return s.res.Header }

// Chunks is the number of lines yielded so far.
func (s *LineStream) Chunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks
}

// Iter returns the line sequence. It can be ranged over once; later ranges
// yield ErrStreamConsumed, or ErrStreamClosed when Close came first.
// A read error or a canceled context is yielded once, as a *StreamError,
// and ends the sequence.
func (s *LineStream) Iter() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := s.begin(); err != nil {
			yield("", err)
			return
		}
		// Releases on break or a panicking loop body; no-op once settled.
		defer s.abandon()

		for {
			if s.isClosed() {
				return
			}
			if err := s.ctx.Err(); err != nil {
				yield("", s.fail(err))
				return
			}

			line, err := s.scanner.Next()
			if errors.Is(err, io.EOF) {
				s.finish()
				return
			}
			if err != nil {
				if s.isClosed() {
					return
				}
				yield("", s.fail(err))
				return
			}

			s.mu.Lock()
			s.chunks++
			s.mu.Unlock()

			if !yield(line, nil) {
				return
			}
		}
	}
}

// Collect drains the stream into a slice. On error it returns the lines
// read so far.
func (s *LineStream) Collect() ([]string, error) {
	var lines []string
	for line, err := range s.Iter() {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Close releases the connection. Closing before the stream was drained
// abandons it: no telemetry entry is written. Close is idempotent and safe
// to call from another goroutine while iterating.
func (s *LineStream) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.state == streamReady {
		s.state = streamClosedEarly
	}
	s.mu.Unlock()

	s.abandon()
	return s.release()
}

func (s *LineStream) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case streamReady:
		s.state = streamIterating
		return nil
	case streamClosedEarly:
		return ErrStreamClosed
	default:
		return ErrStreamConsumed
	}
}

func (s *LineStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// settle marks the outcome as decided and returns the chunk count, or
// false when another path got there first.
func (s *LineStream) settle() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled {
		return 0, false
	}
	s.settled = true
	return s.chunks, true
}

func (s *LineStream) finish() {
	chunks, ok := s.settle()
	if !ok {
		return
	}
	elapsed := s.timer.Stop()
	_ = s.release()

	call := s.call
	call.Duration = elapsed
	call.ChunkCount = &chunks
	s.d.recorder.CaptureSuccess(s.ctx, call, map[string]any{"chunks": chunks})
	s.obs.succeed(elapsed, s.res.StatusCode, nil, chunks)
}

// fail records err as a *StreamError and returns it for the caller.
func (s *LineStream) fail(err error) error {
	chunks, ok := s.settle()
	streamErr := &StreamError{Endpoint: s.call.Endpoint, Chunks: chunks, Err: err}
	if !ok {
		return streamErr
	}
	elapsed := s.timer.Stop()
	_ = s.release()

	call := s.call
	call.Duration = elapsed
	call.ChunkCount = &chunks
	s.d.recorder.CaptureError(s.ctx, call, streamErr)
	s.obs.fail(elapsed, streamErr, call.StatusCode, chunks)
	return streamErr
}

func (s *LineStream) abandon() {
	chunks, ok := s.settle()
	if !ok {
		return
	}
	elapsed := s.timer.Stop()
	_ = s.release()
	s.obs.abandon(elapsed, chunks)
}

func (s *LineStream) release() error {
	s.releaseOnce.Do(func() {
		s.releaseErr = s.res.Body.Close()
		if s.releaseErr != nil {
			s.d.logger.WarnContext(s.ctx, "failed to close stream body",
				"endpoint", s.call.Endpoint,
				"error", s.releaseErr,
			)
		}
	})
	return s.releaseErr
}
