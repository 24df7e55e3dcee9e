package client

import "net/http"

// AudioSpeechRequest is the body of POST /audio/speech.
type AudioSpeechRequest struct {
	Passthrough

	Model  string `json:"model"`
	Input  string `json:"input"`
	Voice  string `json:"voice,omitempty"`
	Format string `json:"format,omitempty"`
}

// SpeechResult is the synthesized audio.
type SpeechResult struct {
	ContentType string
	Audio       []byte
}

// AudioTranscriptionRequest is the body of POST /audio/transcriptions. Set
// one of AudioB64 and AudioURL.
type AudioTranscriptionRequest struct {
	Passthrough

	Model    string `json:"model"`
	AudioB64 string `json:"audio_b64,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
	Language string `json:"language,omitempty"`
}

// AudioTranslationRequest is the body of POST /audio/translations.
type AudioTranslationRequest struct {
	Passthrough

	Model       string   `json:"model"`
	AudioB64    string   `json:"audio_b64,omitempty"`
	AudioURL    string   `json:"audio_url,omitempty"`
	Language    string   `json:"language,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// AudioTextResponse is returned by transcriptions and translations.
type AudioTextResponse struct {
	RawResponse

	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Usage    *Usage  `json:"usage,omitempty"`
}

func (r *SpeechResult) receiveBody(header http.Header, body []byte) {
	r.ContentType = header.Get("Content-Type")
	r.Audio = append([]byte(nil), body...)
}
