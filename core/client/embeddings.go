package client

// EmbeddingsRequest is the body of POST /embeddings. Input is a string or a
// list of strings.
type EmbeddingsRequest struct {
	Passthrough

	Model          string `json:"model"`
	Input          any    `json:"input,omitempty"`
	Dimensions     *int   `json:"dimensions,omitempty"`
	EncodingFormat string `json:"encoding_format,omitempty"`
	User           string `json:"user,omitempty"`
}

// EmbeddingsResponse holds one vector per input.
type EmbeddingsResponse struct {
	RawResponse

	Object string      `json:"object"`
	Model  string      `json:"model"`
	Data   []Embedding `json:"data"`
	Usage  *Usage      `json:"usage,omitempty"`
}

type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// ModerationsRequest is the body of POST /moderations.
type ModerationsRequest struct {
	Passthrough

	Model string `json:"model"`
	Input any    `json:"input"`
}

// ModerationsResponse holds one result per input.
type ModerationsResponse struct {
	RawResponse

	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
}

type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}
