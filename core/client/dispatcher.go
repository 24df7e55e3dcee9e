package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
	"github.com/ai-stats/ai-stats-go/internal/utils"
	"github.com/ai-stats/ai-stats-go/providers/observability"
)

// Dispatcher runs gateway calls and records each one. It holds no per-call
// state and is safe for concurrent use.
type Dispatcher struct {
	transport transport.Transport
	recorder  *devtools.Recorder
	observer  observability.Provider
	logger    *slog.Logger
}

// NewDispatcher returns a dispatcher over t. recorder and observer may be nil.
func NewDispatcher(t transport.Transport, recorder *devtools.Recorder, observer observability.Provider, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{transport: t, recorder: recorder, observer: observer, logger: logger}
}

// Recorder returns the devtools recorder, possibly a disabled one.
func (d *Dispatcher) Recorder() *devtools.Recorder { return d.recorder }

// Do performs a sync call and decodes the response into out: a pointer to
// a JSON-decodable value, a *[]byte for the raw body, or nil to discard it.
// The stream flag of a streamable endpoint is forced to false.
// Transport errors are returned unchanged after being recorded.
func (d *Dispatcher) Do(ctx context.Context, ep Endpoint, request any, out any, opts ...CallOption) error {
	co := applyCallOptions(opts)
	body, record, err := prepare(ep, request, false, co)
	if err != nil {
		return err
	}

	obs := d.observe(ctx, ep, record, false)
	timer := utils.NewTimer()
	res, err := d.transport.Do(obs.ctx, &transport.Request{
		Method: ep.Method,
		Path:   ep.Path,
		Query:  co.query,
		Header: co.header,
		Body:   body,
	})
	elapsed := timer.Stop()

	call := devtools.Call{
		Endpoint: ep.Name,
		Request:  record,
		Started:  timer.StartedAt(),
		Duration: elapsed,
	}
	if err != nil {
		call.StatusCode, call.Headers = errorStatus(err)
		d.recorder.CaptureError(ctx, call, err)
		obs.fail(elapsed, err, call.StatusCode, -1)
		return err
	}

	status := res.StatusCode
	call.StatusCode, call.Headers = &status, res.Header
	if err := decodeInto(res, out); err != nil {
		decodeErr := &DecodeError{Endpoint: ep.Name, Err: err}
		d.recorder.CaptureError(ctx, call, decodeErr)
		obs.fail(elapsed, decodeErr, call.StatusCode, -1)
		return decodeErr
	}

	d.recorder.CaptureSuccess(ctx, call, responseRecord(res))
	obs.succeed(elapsed, status, res.Body, -1)
	return nil
}

// Stream opens a streaming call. Failures before the first line, including
// a non-2xx status, are recorded and returned; the returned stream records
// the rest.
func (d *Dispatcher) Stream(ctx context.Context, ep Endpoint, request any, opts ...CallOption) (*LineStream, error) {
	if !ep.Streamable {
		return nil, ErrNotStreamable
	}
	co := applyCallOptions(opts)
	body, record, err := prepare(ep, request, true, co)
	if err != nil {
		return nil, err
	}

	obs := d.observe(ctx, ep, record, true)
	timer := utils.NewTimer()
	res, err := d.transport.Stream(obs.ctx, &transport.Request{
		Method: ep.Method,
		Path:   ep.Path,
		Query:  co.query,
		Header: co.header,
		Body:   body,
	})

	call := devtools.Call{
		Endpoint: ep.Name,
		Request:  record,
		Started:  timer.StartedAt(),
		Stream:   true,
	}
	if err != nil {
		call.Duration = timer.Stop()
		chunks := 0
		call.ChunkCount = &chunks
		call.StatusCode, call.Headers = errorStatus(err)
		d.recorder.CaptureError(ctx, call, err)
		obs.fail(call.Duration, err, call.StatusCode, 0)
		return nil, err
	}

	status := res.StatusCode
	call.StatusCode, call.Headers = &status, res.Header
	return newLineStream(ctx, d, call, res, timer, obs), nil
}

// prepare builds the transport body and the telemetry view of the request.
func prepare(ep Endpoint, request any, stream bool, co callOptions) (body any, record any, err error) {
	if mp, ok := request.(multipartRequest); ok {
		multipart, rec := mp.multipart()
		return multipart, rec, nil
	}

	if request == nil {
		rec := Payload{}
		for name, value := range ep.params {
			rec[name] = value
		}
		for key, values := range co.query {
			if len(values) == 1 {
				rec[key] = values[0]
			} else {
				rec[key] = values
			}
		}
		return nil, rec, nil
	}

	payload, err := buildPayload(request)
	if err != nil {
		return nil, nil, err
	}
	if ep.Streamable {
		payload["stream"] = stream
	}
	return payload, payload, nil
}

func errorStatus(err error) (*int, http.Header) {
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		return &status, apiErr.Header
	}
	return nil, nil
}

// bodyReceiver is implemented by results that take the raw response, such
// as synthesized audio.
type bodyReceiver interface {
	receiveBody(header http.Header, body []byte)
}

func decodeInto(res *transport.Response, out any) error {
	body := res.Body
	switch o := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*o = append([]byte(nil), body...)
		return nil
	case bodyReceiver:
		o.receiveBody(res.Header, body)
		return nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return err
	}
	if rs, ok := out.(rawSetter); ok {
		rs.setRaw(body)
	}
	return nil
}

// responseRecord is what telemetry stores as the response: the JSON body
// verbatim, text as a string, or a size summary for binary content.
func responseRecord(res *transport.Response) any {
	trimmed := bytes.TrimSpace(res.Body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}

	contentType := res.Header.Get("Content-Type")
	if utf8.Valid(res.Body) && (contentType == "" || strings.HasPrefix(contentType, "text/")) {
		return string(res.Body)
	}
	return map[string]any{
		"content_type": contentType,
		"size_bytes":   len(res.Body),
	}
}
