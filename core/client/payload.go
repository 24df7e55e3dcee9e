package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/ai-stats/ai-stats-go/core/transport"
)

// Payload is a request or response body as a JSON object.
type Payload map[string]any

// Passthrough carries fields the typed requests do not model yet. They are
// merged into the transmitted body; modeled fields win on conflict.
type Passthrough struct {
	Extra map[string]any `json:"-"`
}

func (p Passthrough) extraFields() map[string]any { return p.Extra }

type extender interface {
	extraFields() map[string]any
}

// RawResponse keeps the body a typed response was decoded from.
type RawResponse struct {
	Raw json.RawMessage `json:"-"`
}

func (r *RawResponse) setRaw(body []byte) {
	r.Raw = append(json.RawMessage(nil), body...)
}

type rawSetter interface {
	setRaw(body []byte)
}

// multipartRequest is implemented by requests sent as multipart/form-data.
// record is what telemetry stores in place of the body.
type multipartRequest interface {
	multipart() (body *transport.Multipart, record Payload)
}

// buildPayload encodes request into a fresh Payload. Nothing reachable from
// request is modified, and the payload shares no maps with it.
func buildPayload(request any) (Payload, error) {
	encoded, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var payload Payload
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, fmt.Errorf("%w: %T does not encode to a JSON object", ErrInvalidRequest, request)
	}

	if ext, ok := request.(extender); ok {
		extra, err := copyExtra(ext.extraFields())
		if err != nil {
			return nil, err
		}
		for key, value := range extra {
			if _, modeled := payload[key]; !modeled {
				payload[key] = value
			}
		}
	}
	return payload, nil
}

// copyExtra deep-copies the passthrough bag through JSON so nested maps in
// the transmitted payload are not shared with the caller's.
func copyExtra(extra map[string]any) (map[string]any, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("%w: extra fields: %w", ErrInvalidRequest, err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	out := make(map[string]any, len(extra))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: extra fields: %w", ErrInvalidRequest, err)
	}
	return out, nil
}

// Clone returns a shallow copy of p.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}
