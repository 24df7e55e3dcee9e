package client

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
)

// Boom is the transport failure of scenario B; its type name must appear in
// error.type.
type Boom struct{}

func (*Boom) Error() string { return "boom" }

// stubTransport answers from functions and remembers every request.
type stubTransport struct {
	mu       sync.Mutex
	requests []*transport.Request
	bodies   []map[string]any

	do     func(req *transport.Request) (*transport.Response, error)
	stream func(req *transport.Request) (*transport.StreamResponse, error)
}

func (s *stubTransport) remember(req *transport.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	var body map[string]any
	if encoded, err := json.Marshal(req.Body); err == nil {
		_ = json.Unmarshal(encoded, &body)
	}
	s.bodies = append(s.bodies, body)
}

func (s *stubTransport) Do(_ context.Context, req *transport.Request) (*transport.Response, error) {
	s.remember(req)
	return s.do(req)
}

func (s *stubTransport) Stream(_ context.Context, req *transport.Request) (*transport.StreamResponse, error) {
	s.remember(req)
	return s.stream(req)
}

func jsonResponse(body string) func(*transport.Request) (*transport.Response, error) {
	return func(*transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: 200, Body: []byte(body)}, nil
	}
}

func linesResponse(lines ...string) func(*transport.Request) (*transport.StreamResponse, error) {
	return func(*transport.Request) (*transport.StreamResponse, error) {
		return &transport.StreamResponse{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		}, nil
	}
}

// trackingBody reports whether it was closed.
type trackingBody struct {
	io.Reader
	mu     sync.Mutex
	closed bool
}

func (b *trackingBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *trackingBody) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// newCapturingClient returns a client over tr recording into a fresh
// directory.
func newCapturingClient(t *testing.T, tr transport.Transport, opts ...Option) (*Client, string) {
	t.Helper()
	t.Setenv(devtools.EnvEnabled, "")
	t.Setenv(devtools.EnvDirectory, "")

	dir := filepath.Join(t.TempDir(), "capture")
	opts = append([]Option{
		WithTransport(tr),
		WithDevtools(devtools.Config{Enabled: true, Directory: dir}),
	}, opts...)
	c, err := New("sk-test", opts...)
	require.NoError(t, err)
	return c, dir
}

// entries reads generations.jsonl as generic objects so null fields can be
// asserted.
func entries(t *testing.T, dir string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, devtools.GenerationsFile))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		out = append(out, entry)
	}
	require.NoError(t, scanner.Err())
	return out
}

func metadataOf(t *testing.T, entry map[string]any) map[string]any {
	t.Helper()
	meta, ok := entry["metadata"].(map[string]any)
	require.True(t, ok, "metadata block missing: %v", entry)
	return meta
}
