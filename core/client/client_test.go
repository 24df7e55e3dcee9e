package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
	"github.com/ai-stats/ai-stats-go/core/transport/middleware"
	"github.com/ai-stats/ai-stats-go/internal/version"
	"github.com/ai-stats/ai-stats-go/providers/observability"
	"github.com/ai-stats/ai-stats-go/providers/observability/slogobs"
)

// TestNew_MissingAPIKey_ReturnsSentinel verifies the caller-input error.
func TestNew_MissingAPIKey_ReturnsSentinel(t *testing.T) {
	c, err := New("")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

// TestNew_DevtoolsDisabled_NoFilesystemTrace covers ten successful calls
// against a disabled recorder: the capture directory never appears.
func TestNew_DevtoolsDisabled_NoFilesystemTrace(t *testing.T) {
	t.Setenv(devtools.EnvEnabled, "")
	dir := filepath.Join(t.TempDir(), "capture")

	tr := &stubTransport{do: jsonResponse(chatReply)}
	c, err := New("sk-test", WithTransport(tr), WithDevtools(devtools.Config{Enabled: false, Directory: dir}))
	require.NoError(t, err)
	assert.False(t, c.Recorder().Enabled())

	for range 10 {
		_, err := c.GenerateText(context.Background(), chatRequest())
		require.NoError(t, err)
	}

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "capture directory must not exist, stat err: %v", err)
}

// TestNew_EnvOverride_EnablesCapture verifies that the environment switch
// turns on capture the configuration left off.
func TestNew_EnvOverride_EnablesCapture(t *testing.T) {
	t.Setenv(devtools.EnvEnabled, "yes")
	t.Setenv(devtools.EnvDirectory, "")
	dir := filepath.Join(t.TempDir(), "capture")

	tr := &stubTransport{do: jsonResponse(chatReply)}
	c, err := New("sk-test", WithTransport(tr), WithDevtools(devtools.Config{Directory: dir}))
	require.NoError(t, err)

	_, err = c.GenerateText(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Len(t, entries(t, dir), 1)
}

// TestNew_SharedRecorder_ConcurrentCalls verifies that concurrent calls of
// two clients sharing a recorder each produce one complete line.
func TestNew_SharedRecorder_ConcurrentCalls(t *testing.T) {
	t.Setenv(devtools.EnvEnabled, "")
	dir := t.TempDir()
	recorder := devtools.New(devtools.Config{Enabled: true, Directory: dir})

	tr := &stubTransport{do: jsonResponse(chatReply)}
	a, err := New("sk-a", WithTransport(tr), WithRecorder(recorder))
	require.NoError(t, err)
	b, err := New("sk-b", WithTransport(tr), WithRecorder(recorder))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 40 {
		c := a
		if i%2 == 1 {
			c = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GenerateText(context.Background(), chatRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := devtools.ReadEntries(dir)
	require.NoError(t, err)
	assert.Len(t, got, 40)
}

// TestClient_Routes covers every operation: method, path and telemetry name.
func TestClient_Routes(t *testing.T) {
	type seen struct{ method, path, query string }
	var (
		mu    sync.Mutex
		calls []seen
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, seen{r.Method, r.URL.EscapedPath(), r.URL.RawQuery})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	t.Setenv(devtools.EnvEnabled, "")
	dir := t.TempDir()
	c, err := New("sk-test", WithBaseURL(server.URL), WithDevtools(devtools.Config{Enabled: true, Directory: dir}))
	require.NoError(t, err)
	ctx := context.Background()

	cases := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
	}{
		{"chat.completions", func() error { _, err := c.GenerateText(ctx, chatRequest()); return err }, "POST", "/chat/completions", ""},
		{"messages", func() error { _, err := c.GenerateMessage(ctx, &MessagesRequest{Model: "m"}); return err }, "POST", "/messages", ""},
		{"responses", func() error { _, err := c.GenerateResponse(ctx, &ResponsesRequest{Model: "m"}); return err }, "POST", "/responses", ""},
		{"embeddings", func() error { _, err := c.GenerateEmbedding(ctx, &EmbeddingsRequest{Model: "m"}); return err }, "POST", "/embeddings", ""},
		{"moderations", func() error { _, err := c.GenerateModeration(ctx, &ModerationsRequest{Model: "m"}); return err }, "POST", "/moderations", ""},
		{"images.generations", func() error { _, err := c.GenerateImage(ctx, &ImagesGenerationRequest{Model: "m"}); return err }, "POST", "/images/generations", ""},
		{"images.edits", func() error { _, err := c.EditImage(ctx, &ImagesEditRequest{Model: "m"}); return err }, "POST", "/images/edits", ""},
		{"audio.transcriptions", func() error {
			_, err := c.GenerateTranscription(ctx, &AudioTranscriptionRequest{Model: "m"})
			return err
		}, "POST", "/audio/transcriptions", ""},
		{"audio.translations", func() error { _, err := c.GenerateTranslation(ctx, &AudioTranslationRequest{Model: "m"}); return err }, "POST", "/audio/translations", ""},
		{"batches.create", func() error { _, err := c.CreateBatch(ctx, &BatchRequest{InputFileID: "f"}); return err }, "POST", "/batches", ""},
		{"batches.retrieve", func() error { _, err := c.GetBatch(ctx, "b_1"); return err }, "GET", "/batches/b_1", ""},
		{"files.list", func() error { _, err := c.ListFiles(ctx); return err }, "GET", "/files", ""},
		{"files.retrieve", func() error { _, err := c.GetFile(ctx, "f_1"); return err }, "GET", "/files/f_1", ""},
		{"models.list", func() error { _, err := c.ListModels(ctx); return err }, "GET", "/models", ""},
		{"health", func() error { _, err := c.GetHealth(ctx); return err }, "GET", "/health", ""},
		{"providers", func() error { _, err := c.ListProviders(ctx); return err }, "GET", "/providers", ""},
		{"credits", func() error { _, err := c.GetCredits(ctx); return err }, "GET", "/credits", ""},
		{"activity", func() error { _, err := c.GetActivity(ctx); return err }, "GET", "/activity", ""},
		{"analytics", func() error { _, err := c.GetAnalytics(ctx, nil); return err }, "POST", "/analytics", ""},
		{"generations.retrieve", func() error { _, err := c.GetGeneration(ctx, "gen_1"); return err }, "GET", "/generations", "id=gen_1"},
		{"provisioning.keys.list", func() error { _, err := c.ListKeys(ctx); return err }, "GET", "/management/keys", ""},
		{"provisioning.keys.create", func() error { _, err := c.CreateKey(ctx, &ProvisioningKeyRequest{Name: "ci"}); return err }, "POST", "/management/keys", ""},
		{"provisioning.keys.retrieve", func() error { _, err := c.GetKey(ctx, "k_1"); return err }, "GET", "/management/keys/k_1", ""},
		{"provisioning.keys.update", func() error {
			_, err := c.UpdateKey(ctx, "k_1", &ProvisioningKeyRequest{Status: "disabled"})
			return err
		}, "PATCH", "/management/keys/k_1", ""},
		{"provisioning.keys.delete", func() error { _, err := c.DeleteKey(ctx, "k_1"); return err }, "DELETE", "/management/keys/k_1", ""},
	}

	for _, tc := range cases {
		require.NoError(t, tc.call(), tc.name)
	}

	require.Len(t, calls, len(cases))
	got := entries(t, dir)
	require.Len(t, got, len(cases))
	for i, tc := range cases {
		assert.Equal(t, tc.method, calls[i].method, tc.name)
		assert.Equal(t, tc.path, calls[i].path, tc.name)
		assert.Equal(t, tc.query, calls[i].query, tc.name)
		assert.Equal(t, tc.name, got[i]["type"])
	}
}

// TestClient_UploadFile_SendsMultipart verifies the upload body and its
// telemetry record.
func TestClient_UploadFile_SendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "batch", r.FormValue("purpose"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "input.jsonl", header.Filename)
		assert.Equal(t, `{"custom_id":"1"}`, string(content))

		_, _ = w.Write([]byte(`{"id":"file_1","object":"file","bytes":17,"filename":"input.jsonl","purpose":"batch"}`))
	}))
	defer server.Close()

	t.Setenv(devtools.EnvEnabled, "")
	dir := t.TempDir()
	c, err := New("sk-test", WithBaseURL(server.URL), WithDevtools(devtools.Config{Enabled: true, Directory: dir}))
	require.NoError(t, err)

	file, err := c.UploadFile(context.Background(), &FileUploadRequest{
		Purpose:     "batch",
		Filename:    "input.jsonl",
		ContentType: "application/jsonl",
		Content:     strings.NewReader(`{"custom_id":"1"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "file_1", file.ID)
	assert.EqualValues(t, 17, file.Bytes)

	got := entries(t, dir)
	require.Len(t, got, 1)
	assert.Equal(t, "files.upload", got[0]["type"])
	assert.Equal(t, map[string]any{"purpose": "batch", "filename": "input.jsonl"}, got[0]["request"])
}

// TestClient_UploadFile_MissingContent verifies the input check.
func TestClient_UploadFile_MissingContent(t *testing.T) {
	c, _ := newCapturingClient(t, &stubTransport{})

	_, err := c.UploadFile(context.Background(), &FileUploadRequest{Purpose: "batch"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// TestNamespace_New_BranchesOnStreamFlag verifies that New picks the path
// from the request.
func TestNamespace_New_BranchesOnStreamFlag(t *testing.T) {
	tr := &stubTransport{
		do:     jsonResponse(chatReply),
		stream: linesResponse("data: {}", DoneLine),
	}
	c, dir := newCapturingClient(t, tr)
	ctx := context.Background()

	direct, err := c.Chat.Completions.New(ctx, chatRequest())
	require.NoError(t, err)
	assert.False(t, direct.IsStream())
	assert.Equal(t, "hi", direct.Response.Text())

	req := chatRequest()
	req.Stream = true
	streamed, err := c.Chat.Completions.New(ctx, req)
	require.NoError(t, err)
	require.True(t, streamed.IsStream())
	assert.Nil(t, streamed.Response)
	lines, err := streamed.Stream.Collect()
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	got := entries(t, dir)
	require.Len(t, got, 2)
	assert.Equal(t, false, metadataOf(t, got[0])["stream"])
	assert.Equal(t, true, metadataOf(t, got[1])["stream"])
}

// TestClient_DefaultTransport_SendsIdentity verifies auth, agent and the
// client-wide headers.
func TestClient_DefaultTransport_SendsIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, version.UserAgent(), r.Header.Get("User-Agent"))
		assert.Equal(t, "team-a", r.Header.Get("X-Team"))
		assert.Equal(t, "trace-1", r.Header.Get("X-Trace"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-5-nano", body["model"])
		_, _ = w.Write([]byte(chatReply))
	}))
	defer server.Close()

	t.Setenv(devtools.EnvEnabled, "")
	c, err := New("sk-test", WithBaseURL(server.URL+"/"), WithHeader("X-Team", "team-a"))
	require.NoError(t, err)

	_, err = c.GenerateText(context.Background(), chatRequest(), WithRequestHeader("X-Trace", "trace-1"))
	require.NoError(t, err)
}

// TestClient_Observer_RecordsSpanAndMetrics verifies that an observer sees
// every call, and that its counters are labelled by outcome.
func TestClient_Observer_RecordsSpanAndMetrics(t *testing.T) {
	var logs bytes.Buffer
	observer := slogobs.New(
		slogobs.WithFormat(slogobs.FormatJSON),
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithOutput(&logs),
	)

	calls := 0
	tr := &stubTransport{do: func(*transport.Request) (*transport.Response, error) {
		calls++
		if calls == 2 {
			return nil, &transport.APIError{StatusCode: 500, Message: "upstream"}
		}
		return &transport.Response{StatusCode: 200, Body: []byte(chatReply)}, nil
	}}
	c, _ := newCapturingClient(t, tr, WithObserver(observer))

	_, err := c.GenerateText(context.Background(), chatRequest())
	require.NoError(t, err)
	_, err = c.GenerateText(context.Background(), chatRequest())
	require.Error(t, err)

	requests, ok := observer.Counter(observability.MetricRequests).(interface{ Value() int64 })
	require.True(t, ok)
	assert.EqualValues(t, 2, requests.Value())

	tokens := observer.Counter(observability.MetricTokens).(interface{ Value() int64 })
	assert.EqualValues(t, 4, tokens.Value())

	output := logs.String()
	assert.Contains(t, output, "gateway call completed")
	assert.Contains(t, output, "gateway call failed")
	assert.Contains(t, output, `"aistats.endpoint":"chat.completions"`)
	assert.Contains(t, output, observability.SpanRequest)
}

// TestClient_Middleware_WrapsTransport verifies that middlewares see the
// call while telemetry is still written once.
func TestClient_Middleware_WrapsTransport(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	tr := &stubTransport{do: jsonResponse(chatReply)}
	c, dir := newCapturingClient(t, tr, WithMiddleware(middleware.NewLoggingMiddleware(logger, middleware.LogLevelMinimal)))

	_, err := c.GenerateText(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "gateway call completed")
	assert.Contains(t, logs.String(), "path=/chat/completions")
	assert.Len(t, entries(t, dir), 1)
}
