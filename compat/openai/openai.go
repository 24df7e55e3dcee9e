package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/ai-stats/ai-stats-go/core/client"
)

// ErrNoChoices is returned by Text when a response carries no choices.
var ErrNoChoices = errors.New("no choices in response")

// Adapter maps go-openai types onto gateway calls.
type Adapter struct {
	c *client.Client
}

// NewAdapter wraps c.
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{c: c}
}

// CreateChatCompletion sends req to /chat/completions. req.Stream is ignored.
func (a *Adapter) CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest, opts ...client.CallOption) (goopenai.ChatCompletionResponse, error) {
	var resp goopenai.ChatCompletionResponse
	err := a.c.Do(ctx, client.EndpointChatCompletions, req, &resp, opts...)
	return resp, err
}

// CreateChatCompletionStream opens a streamed chat completion.
func (a *Adapter) CreateChatCompletionStream(ctx context.Context, req goopenai.ChatCompletionRequest, opts ...client.CallOption) (*ChatCompletionStream, error) {
	lines, err := a.c.Stream(ctx, client.EndpointChatCompletions, req, opts...)
	if err != nil {
		return nil, err
	}
	return &ChatCompletionStream{lines: lines}, nil
}

// CreateEmbeddings sends req to /embeddings.
func (a *Adapter) CreateEmbeddings(ctx context.Context, req goopenai.EmbeddingRequest, opts ...client.CallOption) (goopenai.EmbeddingResponse, error) {
	var resp goopenai.EmbeddingResponse
	err := a.c.Do(ctx, client.EndpointEmbeddings, req, &resp, opts...)
	return resp, err
}

// Moderations sends req to /moderations.
func (a *Adapter) Moderations(ctx context.Context, req goopenai.ModerationRequest, opts ...client.CallOption) (goopenai.ModerationResponse, error) {
	var resp goopenai.ModerationResponse
	err := a.c.Do(ctx, client.EndpointModerations, req, &resp, opts...)
	return resp, err
}

// Text returns the message content of the first choice.
func Text(resp goopenai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatCompletionStream decodes the gateway's SSE lines into go-openai chunks.
type ChatCompletionStream struct {
	lines *client.LineStream
}

// Iter yields decoded chunks until the done marker or the end of the body.
// Lines that carry no chunk are skipped. Like client.LineStream.Iter it can
// be ranged once.
func (s *ChatCompletionStream) Iter() iter.Seq2[goopenai.ChatCompletionStreamResponse, error] {
	return func(yield func(goopenai.ChatCompletionStreamResponse, error) bool) {
		for line, err := range s.lines.Iter() {
			if err != nil {
				yield(goopenai.ChatCompletionStreamResponse{}, err)
				return
			}
			chunk, done, err := DecodeChunk(line)
			if err != nil {
				if !yield(goopenai.ChatCompletionStreamResponse{}, err) {
					return
				}
				continue
			}
			if done || chunk == nil {
				continue
			}
			if !yield(*chunk, nil) {
				return
			}
		}
	}
}

// Text concatenates the content deltas of the first choice.
func (s *ChatCompletionStream) Text() (string, error) {
	var b strings.Builder
	for chunk, err := range s.Iter() {
		if err != nil {
			return b.String(), err
		}
		if len(chunk.Choices) > 0 {
			b.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	return b.String(), nil
}

// Lines exposes the underlying line stream.
func (s *ChatCompletionStream) Lines() *client.LineStream { return s.lines }

func (s *ChatCompletionStream) Close() error { return s.lines.Close() }

// DecodeChunk parses one SSE line. done is true for the [DONE] marker; a nil
// chunk with no error means the line was not a data line.
func DecodeChunk(line string) (chunk *goopenai.ChatCompletionStreamResponse, done bool, err error) {
	data, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return nil, false, nil
	}
	data = strings.TrimSpace(data)
	if data == "[DONE]" {
		return nil, true, nil
	}
	chunk = &goopenai.ChatCompletionStreamResponse{}
	if err := json.Unmarshal([]byte(data), chunk); err != nil {
		return nil, false, fmt.Errorf("error decoding chat completion chunk: %w", err)
	}
	return chunk, false, nil
}
