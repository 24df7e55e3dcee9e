package devtools

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-stats/ai-stats-go/internal/version"
)

// Boom is a caller-visible error type whose name must appear in error.type.
type Boom struct{ msg string }

func (b *Boom) Error() string { return b.msg }

type kindedErr struct{}

func (kindedErr) Error() string { return "kinded" }
func (kindedErr) Kind() string  { return "RateLimited" }

func enabledConfig(dir string) Config {
	return Config{Enabled: true, Directory: dir, SaveAssets: true}
}

func readLines(t *testing.T, dir string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, GenerationsFile))
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		out = append(out, line)
	}
	require.NoError(t, scanner.Err())
	return out
}

// TestNew_Disabled_NeverTouchesFilesystem covers ten captures against a
// disabled recorder leaving no trace.
func TestNew_Disabled_NeverTouchesFilesystem(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := filepath.Join(t.TempDir(), "capture")

	rec := New(Config{Enabled: false, Directory: dir, SaveAssets: true})
	require.False(t, rec.Enabled())
	for i := 0; i < 10; i++ {
		rec.CaptureSuccess(context.Background(), Call{Endpoint: "chat.completions"}, map[string]any{"ok": true})
		rec.CaptureError(context.Background(), Call{Endpoint: "chat.completions"}, errors.New("x"))
	}

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

// TestNew_EnvOverrideEnables_DisabledConfig verifies an accepted override
// value turns capture on.
func TestNew_EnvOverrideEnables_DisabledConfig(t *testing.T) {
	t.Setenv(EnvEnabled, "on")
	dir := filepath.Join(t.TempDir(), "capture")

	rec := New(Config{Directory: dir})
	rec.CaptureSuccess(context.Background(), Call{Endpoint: "embeddings"}, nil)

	assert.True(t, rec.Enabled())
	assert.FileExists(t, filepath.Join(dir, GenerationsFile))
}

// TestNew_UnrecognisedOverride_KeepsEnabledConfig verifies values such as
// "off" fall back to the configuration instead of disabling it.
func TestNew_UnrecognisedOverride_KeepsEnabledConfig(t *testing.T) {
	t.Setenv(EnvEnabled, "off")
	dir := filepath.Join(t.TempDir(), "capture")

	rec := New(enabledConfig(dir))
	assert.True(t, rec.Enabled())

	t.Setenv(EnvEnabled, "0")
	assert.False(t, New(Config{Directory: filepath.Join(t.TempDir(), "other")}).Enabled())
}

// TestNilRecorder_IsDisabled verifies a nil recorder is usable.
func TestNilRecorder_IsDisabled(t *testing.T) {
	var rec *Recorder
	assert.False(t, rec.Enabled())
	assert.Empty(t, rec.Directory())
	rec.CaptureSuccess(context.Background(), Call{}, nil)
	rec.CaptureError(context.Background(), Call{}, errors.New("x"))
}

// TestResolveEnabled_EnvValues covers accepted and unrecognised override
// values.
func TestResolveEnabled_EnvValues(t *testing.T) {
	tests := []struct {
		value      string
		configured bool
		want       bool
	}{
		{"1", false, true},
		{" TRUE ", false, true},
		{"yes", false, true},
		{"On", false, true},
		{"0", true, true},
		{"false", true, true},
		{"no", false, false},
		{"OFF", true, true},
		{"maybe", true, true},
		{"maybe", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%v", tt.value, tt.configured), func(t *testing.T) {
			t.Setenv(EnvEnabled, tt.value)
			assert.Equal(t, tt.want, resolveEnabled(tt.configured))
		})
	}
}

// TestResolveEnabled_Unset_UsesConfig verifies absence falls back.
func TestResolveEnabled_Unset_UsesConfig(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	require.NoError(t, os.Unsetenv(EnvEnabled))
	assert.True(t, resolveEnabled(true))
	assert.False(t, resolveEnabled(false))
}

// TestResolveDirectory_Precedence verifies config, then env, then default.
func TestResolveDirectory_Precedence(t *testing.T) {
	t.Setenv(EnvDirectory, "")
	assert.Equal(t, DefaultDirectory, ResolveDirectory(""))

	t.Setenv(EnvDirectory, "/tmp/from-env")
	assert.Equal(t, "/tmp/from-env", ResolveDirectory(""))
	assert.Equal(t, "/explicit", ResolveDirectory("/explicit"))
}

// TestNew_Enabled_CreatesLayoutAndMetadata verifies the directory layout and
// session metadata contents.
func TestNew_Enabled_CreatesLayoutAndMetadata(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := filepath.Join(t.TempDir(), "capture")

	rec := New(enabledConfig(dir))
	require.True(t, rec.Enabled())
	assert.Equal(t, dir, rec.Directory())

	for _, kind := range []string{"images", "audio", "video"} {
		info, err := os.Stat(filepath.Join(dir, AssetsDir, kind))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	meta, err := ReadSessionMetadata(dir)
	require.NoError(t, err)
	_, err = uuid.Parse(meta.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, version.SDK, meta.SDK)
	assert.Equal(t, version.Version, meta.SDKVersion)
	assert.NotEmpty(t, meta.Platform)
	assert.Positive(t, meta.StartedAt)
}

// TestNew_SaveAssetsOff_SkipsAssetDirectories verifies assets are optional.
func TestNew_SaveAssetsOff_SkipsAssetDirectories(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()

	New(Config{Enabled: true, Directory: dir})

	_, err := os.Stat(filepath.Join(dir, AssetsDir))
	assert.True(t, os.IsNotExist(err))
}

// TestNew_ExistingMetadata_IsNeverRewritten verifies later sessions keep the
// original started_at, whether the file came from this SDK or another one.
func TestNew_ExistingMetadata_IsNeverRewritten(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()
	original := `{"session_id":"s-1","started_at":123,"sdk":"python","sdk_version":"1.0.0","platform":"linux"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(original), 0o644))

	rec := New(enabledConfig(dir))
	rec.CaptureSuccess(context.Background(), Call{Endpoint: "models.list"}, nil)
	New(enabledConfig(dir))

	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)
	assert.Equal(t, original, string(raw))

	meta, err := ReadSessionMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(123), meta.StartedAt)
}

// TestCaptureSuccess_WritesEntry checks every field of a sync success entry.
func TestCaptureSuccess_WritesEntry(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()
	rec := New(enabledConfig(dir))

	started := time.UnixMilli(1_700_000_000_000)
	request := map[string]any{"model": "openai/gpt-5-nano", "stream": false}
	response := json.RawMessage(`{"model":"gpt-5-nano-2025","provider":"openai","choices":[{"message":{"role":"assistant","content":"<b>hi</b>"}}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`)
	rec.CaptureSuccess(context.Background(), Call{
		Endpoint:   "chat.completions",
		Request:    request,
		Started:    started,
		Duration:   1500 * time.Millisecond,
		StatusCode: intPtr(200),
	}, response)

	lines := readLines(t, dir)
	require.Len(t, lines, 1)
	entry := lines[0]

	_, err := uuid.Parse(entry["id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, "chat.completions", entry["type"])
	assert.Equal(t, float64(1_700_000_000_000), entry["timestamp"])
	assert.Equal(t, float64(1500), entry["duration_ms"])
	assert.Equal(t, map[string]any{"model": "openai/gpt-5-nano", "stream": false}, entry["request"])
	assert.Nil(t, entry["error"])

	var wantResponse map[string]any
	require.NoError(t, json.Unmarshal(response, &wantResponse))
	assert.Equal(t, wantResponse, entry["response"])

	meta := entry["metadata"].(map[string]any)
	assert.Equal(t, "go", meta["sdk"])
	assert.Equal(t, false, meta["stream"])
	assert.Contains(t, meta, "chunk_count")
	assert.Nil(t, meta["chunk_count"])
	assert.Equal(t, float64(200), meta["status_code"])
	assert.Equal(t, "gpt-5-nano-2025", meta["model"])
	assert.Equal(t, "openai", meta["provider"])
	assert.Equal(t, map[string]any{"prompt_tokens": float64(3), "completion_tokens": float64(2), "total_tokens": float64(5)}, meta["usage"])
	assert.NotContains(t, meta, "headers")

	raw, err := os.ReadFile(filepath.Join(dir, GenerationsFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<b>hi</b>")
}

// TestCaptureSuccess_InputOutputUsage_DerivesTotal verifies the alternate
// naming and the derived total.
func TestCaptureSuccess_InputOutputUsage_DerivesTotal(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()
	rec := New(enabledConfig(dir))

	rec.CaptureSuccess(context.Background(), Call{
		Endpoint: "messages",
		Request:  map[string]any{"model": "anthropic/claude-haiku"},
	}, map[string]any{"usage": map[string]any{"input_tokens": 10, "output_tokens": 4}})

	entries, err := ReadEntries(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	usage := entries[0].Metadata.Usage
	require.NotNil(t, usage)
	assert.Equal(t, int64(10), *usage.PromptTokens)
	assert.Equal(t, int64(4), *usage.CompletionTokens)
	assert.Equal(t, int64(14), *usage.TotalTokens)
	assert.Equal(t, "anthropic/claude-haiku", entries[0].Metadata.Model)
	assert.Empty(t, entries[0].Metadata.Provider)
}

// TestCaptureSuccess_StreamSummary_RecordsChunkCount verifies the stream
// entry shape.
func TestCaptureSuccess_StreamSummary_RecordsChunkCount(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()
	rec := New(enabledConfig(dir))

	rec.CaptureSuccess(context.Background(), Call{
		Endpoint:   "responses",
		Request:    map[string]any{"model": "openai/gpt-5", "stream": true},
		Stream:     true,
		ChunkCount: intPtr(7),
		StatusCode: intPtr(200),
	}, map[string]any{"chunks": 7})

	entry := readLines(t, dir)[0]
	assert.Equal(t, map[string]any{"chunks": float64(7)}, entry["response"])
	meta := entry["metadata"].(map[string]any)
	assert.Equal(t, true, meta["stream"])
	assert.Equal(t, float64(7), meta["chunk_count"])
	assert.Equal(t, "openai/gpt-5", meta["model"])
	assert.NotContains(t, meta, "usage")
}

// TestCaptureError_RecordsKindAndNullResponse covers the error entry shape
// and kind naming.
func TestCaptureError_RecordsKindAndNullResponse(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()
	rec := New(enabledConfig(dir))

	rec.CaptureError(context.Background(), Call{Endpoint: "chat.completions", Request: map[string]any{"model": "m"}}, &Boom{msg: "kaboom"})
	rec.CaptureError(context.Background(), Call{Endpoint: "embeddings"}, fmt.Errorf("wrapped: %w", kindedErr{}))

	lines := readLines(t, dir)
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "response")
	assert.Nil(t, lines[0]["response"])
	assert.Equal(t, map[string]any{"message": "kaboom", "type": "Boom"}, lines[0]["error"])
	assert.Nil(t, lines[0]["metadata"].(map[string]any)["status_code"])

	assert.Equal(t, "RateLimited", lines[1]["error"].(map[string]any)["type"])
}

// TestErrorKind_TypeNames covers the reflection fallback.
func TestErrorKind_TypeNames(t *testing.T) {
	assert.Equal(t, "Boom", ErrorKind(&Boom{}))
	assert.Equal(t, "errorString", ErrorKind(errors.New("x")))
	assert.Equal(t, "RateLimited", ErrorKind(kindedErr{}))
	assert.Equal(t, "", ErrorKind(nil))
}

// TestCaptureSuccess_Headers_OnlyWhenEnabled verifies header capture is
// opt-in.
func TestCaptureSuccess_Headers_OnlyWhenEnabled(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	headers := http.Header{"X-Request-Id": {"req_1"}}

	quietDir := t.TempDir()
	New(enabledConfig(quietDir)).CaptureSuccess(context.Background(), Call{Endpoint: "health", Headers: headers}, nil)
	assert.NotContains(t, readLines(t, quietDir)[0]["metadata"], "headers")

	loudDir := t.TempDir()
	cfg := enabledConfig(loudDir)
	cfg.CaptureHeaders = true
	New(cfg).CaptureSuccess(context.Background(), Call{Endpoint: "health", Headers: headers}, nil)
	meta := readLines(t, loudDir)[0]["metadata"].(map[string]any)
	assert.Equal(t, map[string]any{"x-request-id": "req_1"}, meta["headers"])
}

// TestCapture_Concurrent_LinesNeverInterleave verifies concurrent appends
// each produce one intact line.
func TestCapture_Concurrent_LinesNeverInterleave(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	dir := t.TempDir()
	rec := New(enabledConfig(dir))

	const calls = 64
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := map[string]any{"model": "m", "input": string(bytes.Repeat([]byte{'a' + byte(i%26)}, 4096))}
			rec.CaptureSuccess(context.Background(), Call{Endpoint: "embeddings", Request: payload}, nil)
		}(i)
	}
	wg.Wait()

	assert.Len(t, readLines(t, dir), calls)
}

// TestCapture_WriteFailure_IsLoggedAndSwallowed verifies an unwritable
// directory never panics and is reported at warn level.
func TestCapture_WriteFailure_IsLoggedAndSwallowed(t *testing.T) {
	t.Setenv(EnvEnabled, "")
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := New(enabledConfig(blocker), WithLogger(logger))

	assert.NotPanics(t, func() {
		rec.CaptureSuccess(context.Background(), Call{Endpoint: "chat.completions"}, nil)
		rec.CaptureError(context.Background(), Call{Endpoint: "chat.completions"}, errors.New("x"))
	})
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "devtools: failed to create capture directory")
}

func intPtr(v int) *int { return &v }
