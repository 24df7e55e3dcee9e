package devtools

import "github.com/ai-stats/ai-stats-go/core/cost"

// Entry is one line of generations.jsonl.
type Entry struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Timestamp  int64      `json:"timestamp"`
	DurationMs int64      `json:"duration_ms"`
	Request    any        `json:"request"`
	Response   any        `json:"response"`
	Error      *ErrorInfo `json:"error"`
	Metadata   Metadata   `json:"metadata"`
}

// ErrorInfo describes a failed call.
type ErrorInfo struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Metadata is the per-entry metadata block. ChunkCount and StatusCode encode
// as null when unknown.
type Metadata struct {
	SDK        string            `json:"sdk"`
	SDKVersion string            `json:"sdk_version"`
	Stream     bool              `json:"stream"`
	ChunkCount *int              `json:"chunk_count"`
	StatusCode *int              `json:"status_code"`
	Usage      *Usage            `json:"usage,omitempty"`
	Cost       *cost.Breakdown   `json:"cost,omitempty"`
	Model      string            `json:"model,omitempty"`
	Provider   string            `json:"provider,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Usage holds token counts; a nil field was not reported.
type Usage struct {
	PromptTokens     *int64 `json:"prompt_tokens"`
	CompletionTokens *int64 `json:"completion_tokens"`
	TotalTokens      *int64 `json:"total_tokens"`

	CacheCreationInputTokens *int64 `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     *int64 `json:"cache_read_input_tokens,omitempty"`
}

// Total returns TotalTokens, or 0.
func (u *Usage) Total() int64 {
	if u == nil || u.TotalTokens == nil {
		return 0
	}
	return *u.TotalTokens
}

// Tokens converts u for pricing; unreported counts are zero.
func (u *Usage) Tokens() cost.Tokens {
	if u == nil {
		return cost.Tokens{}
	}
	value := func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return cost.Tokens{
		Input:         value(u.PromptTokens),
		Output:        value(u.CompletionTokens),
		CacheCreation: value(u.CacheCreationInputTokens),
		CacheRead:     value(u.CacheReadInputTokens),
	}
}

// EstimateCost prices e with table. It returns nil when e has no usage or
// its model is not in table.
func EstimateCost(e *Entry, table cost.Table) *cost.Breakdown {
	if e.Metadata.Usage == nil {
		return nil
	}
	mc, ok := table.Lookup(e.Metadata.Model)
	if !ok {
		return nil
	}
	b := mc.Estimate(e.Metadata.Usage.Tokens())
	return &b
}

// SessionMetadata is the content of metadata.json.
type SessionMetadata struct {
	SessionID  string `json:"session_id"`
	StartedAt  int64  `json:"started_at"`
	SDK        string `json:"sdk"`
	SDKVersion string `json:"sdk_version"`
	Platform   string `json:"platform"`
	GoVersion  string `json:"go_version,omitempty"`
}
