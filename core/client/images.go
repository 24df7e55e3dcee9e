package client

// ImagesGenerationRequest is the body of POST /images/generations.
type ImagesGenerationRequest struct {
	Passthrough

	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              *int   `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
	Style          string `json:"style,omitempty"`
	User           string `json:"user,omitempty"`
}

// ImagesEditRequest is the body of POST /images/edits. Image and Mask are
// URLs or base64 data URIs.
type ImagesEditRequest struct {
	Passthrough

	Model  string `json:"model"`
	Image  string `json:"image"`
	Mask   string `json:"mask,omitempty"`
	Prompt string `json:"prompt"`
	N      *int   `json:"n,omitempty"`
	Size   string `json:"size,omitempty"`
	User   string `json:"user,omitempty"`
}

// ImagesResponse holds the generated or edited images.
type ImagesResponse struct {
	RawResponse

	Created int64       `json:"created"`
	Model   string      `json:"model,omitempty"`
	Data    []ImageData `json:"data"`
	Usage   *Usage      `json:"usage,omitempty"`
}

// ImageData is either a URL or base64 content, depending on response_format.
type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}
