package client

import (
	"net/http"
	"net/url"
	"strings"
)

// Endpoint is one gateway operation.
type Endpoint struct {
	// Name is the telemetry type, e.g. "chat.completions".
	Name   string
	Method string
	// Path may hold {param} placeholders filled by Bind.
	Path string
	// Streamable endpoints carry a stream flag in their body, which the
	// dispatcher always sets.
	Streamable bool

	params map[string]string
}

// Bind fills the path placeholders in order with values, escaping each one.
// Missing values leave their placeholder untouched.
func (e Endpoint) Bind(values ...string) Endpoint {
	bound := e
	bound.params = make(map[string]string, len(values))

	var b strings.Builder
	rest := e.Path
	for _, value := range values {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			break
		}
		name := rest[open+1 : open+closing]
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(value))
		bound.params[name] = value
		rest = rest[open+closing+1:]
	}
	b.WriteString(rest)
	bound.Path = b.String()
	return bound
}

// Gateway endpoints.
var (
	EndpointChatCompletions     = Endpoint{Name: "chat.completions", Method: http.MethodPost, Path: "/chat/completions", Streamable: true}
	EndpointMessages            = Endpoint{Name: "messages", Method: http.MethodPost, Path: "/messages", Streamable: true}
	EndpointResponses           = Endpoint{Name: "responses", Method: http.MethodPost, Path: "/responses", Streamable: true}
	EndpointEmbeddings          = Endpoint{Name: "embeddings", Method: http.MethodPost, Path: "/embeddings"}
	EndpointModerations         = Endpoint{Name: "moderations", Method: http.MethodPost, Path: "/moderations"}
	EndpointImagesGenerations   = Endpoint{Name: "images.generations", Method: http.MethodPost, Path: "/images/generations"}
	EndpointImagesEdits         = Endpoint{Name: "images.edits", Method: http.MethodPost, Path: "/images/edits"}
	EndpointAudioSpeech         = Endpoint{Name: "audio.speech", Method: http.MethodPost, Path: "/audio/speech"}
	EndpointAudioTranscriptions = Endpoint{Name: "audio.transcriptions", Method: http.MethodPost, Path: "/audio/transcriptions"}
	EndpointAudioTranslations   = Endpoint{Name: "audio.translations", Method: http.MethodPost, Path: "/audio/translations"}
	EndpointBatchesCreate       = Endpoint{Name: "batches.create", Method: http.MethodPost, Path: "/batches"}
	EndpointBatchesRetrieve     = Endpoint{Name: "batches.retrieve", Method: http.MethodGet, Path: "/batches/{batch_id}"}
	EndpointFilesUpload         = Endpoint{Name: "files.upload", Method: http.MethodPost, Path: "/files"}
	EndpointFilesList           = Endpoint{Name: "files.list", Method: http.MethodGet, Path: "/files"}
	EndpointFilesRetrieve       = Endpoint{Name: "files.retrieve", Method: http.MethodGet, Path: "/files/{file_id}"}
	EndpointModelsList          = Endpoint{Name: "models.list", Method: http.MethodGet, Path: "/models"}
	EndpointHealth              = Endpoint{Name: "health", Method: http.MethodGet, Path: "/health"}
	EndpointProviders           = Endpoint{Name: "providers", Method: http.MethodGet, Path: "/providers"}
	EndpointCredits             = Endpoint{Name: "credits", Method: http.MethodGet, Path: "/credits"}
	EndpointActivity            = Endpoint{Name: "activity", Method: http.MethodGet, Path: "/activity"}
	EndpointAnalytics           = Endpoint{Name: "analytics", Method: http.MethodPost, Path: "/analytics"}
	EndpointGenerationsRetrieve = Endpoint{Name: "generations.retrieve", Method: http.MethodGet, Path: "/generations"}
	EndpointKeysList            = Endpoint{Name: "provisioning.keys.list", Method: http.MethodGet, Path: "/management/keys"}
	EndpointKeysCreate          = Endpoint{Name: "provisioning.keys.create", Method: http.MethodPost, Path: "/management/keys"}
	EndpointKeysRetrieve        = Endpoint{Name: "provisioning.keys.retrieve", Method: http.MethodGet, Path: "/management/keys/{id}"}
	EndpointKeysUpdate          = Endpoint{Name: "provisioning.keys.update", Method: http.MethodPatch, Path: "/management/keys/{id}"}
	EndpointKeysDelete          = Endpoint{Name: "provisioning.keys.delete", Method: http.MethodDelete, Path: "/management/keys/{id}"}
)

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	query  url.Values
	header http.Header
}

// WithQuery adds query parameters to the call.
func WithQuery(query url.Values) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = make(url.Values)
		}
		for key, values := range query {
			o.query[key] = append(o.query[key], values...)
		}
	}
}

// WithRequestHeader sets a header on this call only.
func WithRequestHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.header == nil {
			o.header = make(http.Header)
		}
		o.header.Set(key, value)
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}
	return co
}
