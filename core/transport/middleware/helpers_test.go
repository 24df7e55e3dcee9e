package middleware

import (
	"context"
	"io"
	"strings"

	"github.com/ai-stats/ai-stats-go/core/transport"
)

// sequence is a transport whose Do and Stream pop the next error from errs,
// succeeding once errs is exhausted.
type sequence struct {
	errs  []error
	calls int
}

func (s *sequence) pop() error {
	i := s.calls
	s.calls++
	if i < len(s.errs) {
		return s.errs[i]
	}
	return nil
}

func (s *sequence) Do(context.Context, *transport.Request) (*transport.Response, error) {
	if err := s.pop(); err != nil {
		return nil, err
	}
	return &transport.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)}, nil
}

func (s *sequence) Stream(context.Context, *transport.Request) (*transport.StreamResponse, error) {
	if err := s.pop(); err != nil {
		return nil, err
	}
	return &transport.StreamResponse{StatusCode: 200, Body: io.NopCloser(strings.NewReader("data: x\n"))}, nil
}

func apiErr(status int) error { return &transport.APIError{StatusCode: status, Message: "boom"} }
