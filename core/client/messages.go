package client

// MessageParam is one turn of an Anthropic-style conversation.
type MessageParam struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// MessagesRequest is the body of POST /messages.
type MessagesRequest struct {
	Passthrough

	Model       string         `json:"model"`
	Messages    []MessageParam `json:"messages"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	System      any            `json:"system,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
	TopK        *int           `json:"top_k,omitempty"`
	TopP        *float64       `json:"top_p,omitempty"`
	Tools       []any          `json:"tools,omitempty"`
	ToolChoice  any            `json:"tool_choice,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Provider    any            `json:"provider,omitempty"`
	Stream      bool           `json:"stream,omitempty"`
}

// MessagesResponse is the body returned by a sync messages call.
type MessagesResponse struct {
	RawResponse

	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Model        string         `json:"model"`
	Content      []ContentBlock `json:"content"`
	StopReason   string         `json:"stop_reason,omitempty"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        *Usage         `json:"usage,omitempty"`
}

// ContentBlock is one block of a messages response.
type ContentBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`
}

// Text concatenates the text blocks.
func (r *MessagesResponse) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}
