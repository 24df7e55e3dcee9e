package client

// ResponsesRequest is the body of POST /responses.
type ResponsesRequest struct {
	Passthrough

	Model              string         `json:"model"`
	Input              any            `json:"input,omitempty"`
	InputItems         []any          `json:"input_items,omitempty"`
	Instructions       string         `json:"instructions,omitempty"`
	MaxOutputTokens    *int           `json:"max_output_tokens,omitempty"`
	PreviousResponseID string         `json:"previous_response_id,omitempty"`
	Temperature        *float64       `json:"temperature,omitempty"`
	TopP               *float64       `json:"top_p,omitempty"`
	Tools              []any          `json:"tools,omitempty"`
	ToolChoice         any            `json:"tool_choice,omitempty"`
	Reasoning          *Reasoning     `json:"reasoning,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Store              *bool          `json:"store,omitempty"`
	Provider           any            `json:"provider,omitempty"`
	Stream             bool           `json:"stream,omitempty"`
}

// ResponsesResponse is the body returned by a sync responses call.
type ResponsesResponse struct {
	RawResponse

	ID        string           `json:"id"`
	Object    string           `json:"object"`
	CreatedAt int64            `json:"created_at"`
	Status    string           `json:"status"`
	Model     string           `json:"model"`
	Output    []ResponseOutput `json:"output"`
	Usage     *Usage           `json:"usage,omitempty"`
}

// ResponseOutput is one item of a Responses output array.
type ResponseOutput struct {
	ID      string                  `json:"id,omitempty"`
	Type    string                  `json:"type"`
	Role    string                  `json:"role,omitempty"`
	Status  string                  `json:"status,omitempty"`
	Content []ResponseOutputContent `json:"content,omitempty"`
}

type ResponseOutputContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OutputText concatenates every output_text part.
func (r *ResponsesResponse) OutputText() string {
	var out string
	for _, item := range r.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" {
				out += part.Text
			}
		}
	}
	return out
}
