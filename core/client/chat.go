package client

// ChatMessage is one turn of a chat completion. Content is a string or a
// list of content parts.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    any        `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// SystemMessage, UserMessage and AssistantMessage build text turns.
func SystemMessage(content string) ChatMessage { return ChatMessage{Role: "system", Content: content} }
func UserMessage(content string) ChatMessage   { return ChatMessage{Role: "user", Content: content} }
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// Text returns Content when it is a plain string.
func (m ChatMessage) Text() string {
	s, _ := m.Content.(string)
	return s
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Tool declares a function the model may call.
type Tool struct {
	Type     string        `json:"type"`
	Function *ToolFunction `json:"function,omitempty"`
}

type ToolFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// Reasoning configures reasoning effort on models that support it.
type Reasoning struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ChatCompletionsRequest is the body of POST /chat/completions.
type ChatCompletionsRequest struct {
	Passthrough

	Model             string        `json:"model"`
	Messages          []ChatMessage `json:"messages"`
	System            string        `json:"system,omitempty"`
	MaxOutputTokens   *int          `json:"max_output_tokens,omitempty"`
	Temperature       *float64      `json:"temperature,omitempty"`
	TopP              *float64      `json:"top_p,omitempty"`
	TopK              *int          `json:"top_k,omitempty"`
	FrequencyPenalty  *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty   *float64      `json:"presence_penalty,omitempty"`
	Seed              *int          `json:"seed,omitempty"`
	Tools             []Tool        `json:"tools,omitempty"`
	ToolChoice        any           `json:"tool_choice,omitempty"`
	ParallelToolCalls *bool         `json:"parallel_tool_calls,omitempty"`
	MaxToolCalls      *int          `json:"max_tool_calls,omitempty"`
	ResponseFormat    any           `json:"response_format,omitempty"`
	Logprobs          *bool         `json:"logprobs,omitempty"`
	TopLogprobs       *int          `json:"top_logprobs,omitempty"`
	Reasoning         *Reasoning    `json:"reasoning,omitempty"`
	Provider          any           `json:"provider,omitempty"`
	ServiceTier       string        `json:"service_tier,omitempty"`
	UserID            string        `json:"user_id,omitempty"`
	Usage             *bool         `json:"usage,omitempty"`
	Meta              *bool         `json:"meta,omitempty"`
	// Stream selects the path taken by ChatCompletions.New. Create and
	// Stream always overwrite it.
	Stream bool `json:"stream,omitempty"`
}

// ChatCompletionsResponse is the body returned by a sync chat completion.
type ChatCompletionsResponse struct {
	RawResponse

	ID       string       `json:"id"`
	Object   string       `json:"object"`
	Created  int64        `json:"created"`
	Model    string       `json:"model"`
	Provider string       `json:"provider,omitempty"`
	Choices  []ChatChoice `json:"choices"`
	Usage    *Usage       `json:"usage,omitempty"`
}

// ChatChoice is one completion candidate.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Text returns the content of the first choice.
func (r *ChatCompletionsResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Text()
}

// Usage is the token accounting block. Gateways report either the prompt /
// completion or the input / output naming.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	InputTokens      int `json:"input_tokens,omitempty"`
	OutputTokens     int `json:"output_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}
