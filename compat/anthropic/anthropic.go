package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	goanthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/ai-stats/ai-stats-go/core/client"
)

// Adapter maps go-anthropic types onto gateway calls.
type Adapter struct {
	c *client.Client
}

// NewAdapter wraps c.
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{c: c}
}

// CreateMessages sends req to /messages. req.Stream is ignored.
func (a *Adapter) CreateMessages(ctx context.Context, req goanthropic.MessagesRequest, opts ...client.CallOption) (goanthropic.MessagesResponse, error) {
	var resp goanthropic.MessagesResponse
	err := a.c.Do(ctx, client.EndpointMessages, req, &resp, opts...)
	return resp, err
}

// CreateMessagesStream opens a streamed /messages call.
func (a *Adapter) CreateMessagesStream(ctx context.Context, req goanthropic.MessagesRequest, opts ...client.CallOption) (*MessagesStream, error) {
	lines, err := a.c.Stream(ctx, client.EndpointMessages, req, opts...)
	if err != nil {
		return nil, err
	}
	return &MessagesStream{lines: lines}, nil
}

// Text joins the text blocks of resp.
func Text(resp goanthropic.MessagesResponse) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == goanthropic.MessagesContentTypeText && block.Text != nil {
			b.WriteString(*block.Text)
		}
	}
	return b.String()
}

// Event is one data line of a messages stream.
type Event struct {
	Type goanthropic.MessagesEvent
	Data json.RawMessage
}

// TextDelta returns the text of a content_block_delta event.
func (e Event) TextDelta() (string, bool) {
	if e.Type != goanthropic.MessagesEventContentBlockDelta {
		return "", false
	}
	var delta goanthropic.MessagesEventContentBlockDeltaData
	if err := json.Unmarshal(e.Data, &delta); err != nil || delta.Delta.Text == nil {
		return "", false
	}
	return *delta.Delta.Text, true
}

// MessagesStream decodes the gateway's SSE lines into events.
type MessagesStream struct {
	lines *client.LineStream
}

// Iter yields one Event per data line. The "event:" lines are skipped since
// every data payload repeats its type.
func (s *MessagesStream) Iter() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for line, err := range s.lines.Iter() {
			if err != nil {
				yield(Event{}, err)
				return
			}
			event, ok, err := DecodeEvent(line)
			if err != nil {
				if !yield(Event{}, err) {
					return
				}
				continue
			}
			if !ok {
				continue
			}
			if !yield(event, nil) {
				return
			}
		}
	}
}

// Text concatenates every text delta until the stream ends.
func (s *MessagesStream) Text() (string, error) {
	var b strings.Builder
	for event, err := range s.Iter() {
		if err != nil {
			return b.String(), err
		}
		if text, ok := event.TextDelta(); ok {
			b.WriteString(text)
		}
	}
	return b.String(), nil
}

// Lines exposes the underlying line stream.
func (s *MessagesStream) Lines() *client.LineStream { return s.lines }

func (s *MessagesStream) Close() error { return s.lines.Close() }

// DecodeEvent parses one SSE line. ok is false for lines that are not data
// lines and for the [DONE] marker some gateways append.
func DecodeEvent(line string) (event Event, ok bool, err error) {
	data, found := strings.CutPrefix(line, "data:")
	if !found {
		return Event{}, false, nil
	}
	data = strings.TrimSpace(data)
	if data == "[DONE]" {
		return Event{}, false, nil
	}
	var head struct {
		Type goanthropic.MessagesEvent `json:"type"`
	}
	if err := json.Unmarshal([]byte(data), &head); err != nil {
		return Event{}, false, fmt.Errorf("error decoding messages event: %w", err)
	}
	return Event{Type: head.Type, Data: json.RawMessage(data)}, true, nil
}
