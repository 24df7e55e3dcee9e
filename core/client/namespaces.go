package client

import (
	"context"
	"fmt"
)

// Result holds the outcome of a New call: Response for sync requests,
// Stream when the request asked for streaming.
type Result[T any] struct {
	Response *T
	Stream   *LineStream
}

// IsStream reports whether the call was streamed.
func (r *Result[T]) IsStream() bool { return r.Stream != nil }

func doTyped[T any](ctx context.Context, d *Dispatcher, ep Endpoint, request any, opts ...CallOption) (*T, error) {
	out := new(T)
	if err := d.Do(ctx, ep, request, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func newTyped[T any](ctx context.Context, d *Dispatcher, ep Endpoint, request any, stream bool, opts ...CallOption) (*Result[T], error) {
	if stream {
		s, err := d.Stream(ctx, ep, request, opts...)
		if err != nil {
			return nil, err
		}
		return &Result[T]{Stream: s}, nil
	}
	res, err := doTyped[T](ctx, d, ep, request, opts...)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Response: res}, nil
}

// --- chat ---

// Chat groups the chat endpoints.
type Chat struct {
	Completions ChatCompletions
}

// ChatCompletions calls POST /chat/completions.
type ChatCompletions struct{ d *Dispatcher }

// Create runs a sync chat completion.
func (n ChatCompletions) Create(ctx context.Context, req *ChatCompletionsRequest, opts ...CallOption) (*ChatCompletionsResponse, error) {
	return doTyped[ChatCompletionsResponse](ctx, n.d, EndpointChatCompletions, req, opts...)
}

// Stream opens a streamed chat completion.
func (n ChatCompletions) Stream(ctx context.Context, req *ChatCompletionsRequest, opts ...CallOption) (*LineStream, error) {
	return n.d.Stream(ctx, EndpointChatCompletions, req, opts...)
}

// New streams when req.Stream is set and calls Create otherwise.
func (n ChatCompletions) New(ctx context.Context, req *ChatCompletionsRequest, opts ...CallOption) (*Result[ChatCompletionsResponse], error) {
	return newTyped[ChatCompletionsResponse](ctx, n.d, EndpointChatCompletions, req, req != nil && req.Stream, opts...)
}

// --- messages ---

// Messages calls the Anthropic-style POST /messages.
type Messages struct{ d *Dispatcher }

// Create sends a message request and waits for the reply.
func (n Messages) Create(ctx context.Context, req *MessagesRequest, opts ...CallOption) (*MessagesResponse, error) {
	return doTyped[MessagesResponse](ctx, n.d, EndpointMessages, req, opts...)
}

// Stream opens a streamed message request.
func (n Messages) Stream(ctx context.Context, req *MessagesRequest, opts ...CallOption) (*LineStream, error) {
	return n.d.Stream(ctx, EndpointMessages, req, opts...)
}

// New streams when req.Stream is set and calls Create otherwise.
func (n Messages) New(ctx context.Context, req *MessagesRequest, opts ...CallOption) (*Result[MessagesResponse], error) {
	return newTyped[MessagesResponse](ctx, n.d, EndpointMessages, req, req != nil && req.Stream, opts...)
}

// --- responses ---

// Responses calls POST /responses.
type Responses struct{ d *Dispatcher }

// Create runs a sync response request.
func (n Responses) Create(ctx context.Context, req *ResponsesRequest, opts ...CallOption) (*ResponsesResponse, error) {
	return doTyped[ResponsesResponse](ctx, n.d, EndpointResponses, req, opts...)
}

// Stream opens a streamed response request.
func (n Responses) Stream(ctx context.Context, req *ResponsesRequest, opts ...CallOption) (*LineStream, error) {
	return n.d.Stream(ctx, EndpointResponses, req, opts...)
}

// New streams when req.Stream is set and calls Create otherwise.
func (n Responses) New(ctx context.Context, req *ResponsesRequest, opts ...CallOption) (*Result[ResponsesResponse], error) {
	return newTyped[ResponsesResponse](ctx, n.d, EndpointResponses, req, req != nil && req.Stream, opts...)
}

// --- embeddings, moderations ---

// Embeddings calls POST /embeddings.
type Embeddings struct{ d *Dispatcher }

// Create embeds the request input.
func (n Embeddings) Create(ctx context.Context, req *EmbeddingsRequest, opts ...CallOption) (*EmbeddingsResponse, error) {
	return doTyped[EmbeddingsResponse](ctx, n.d, EndpointEmbeddings, req, opts...)
}

// Moderations calls POST /moderations.
type Moderations struct{ d *Dispatcher }

// Create classifies the request input.
func (n Moderations) Create(ctx context.Context, req *ModerationsRequest, opts ...CallOption) (*ModerationsResponse, error) {
	return doTyped[ModerationsResponse](ctx, n.d, EndpointModerations, req, opts...)
}

// --- images ---

// Images calls the image generation and edit endpoints.
type Images struct{ d *Dispatcher }

// Generate creates images from a prompt.
func (n Images) Generate(ctx context.Context, req *ImagesGenerationRequest, opts ...CallOption) (*ImagesResponse, error) {
	return doTyped[ImagesResponse](ctx, n.d, EndpointImagesGenerations, req, opts...)
}

// Edit changes an existing image given as a URL or data URI.
func (n Images) Edit(ctx context.Context, req *ImagesEditRequest, opts ...CallOption) (*ImagesResponse, error) {
	return doTyped[ImagesResponse](ctx, n.d, EndpointImagesEdits, req, opts...)
}

// --- audio ---

// Audio groups the speech, transcription and translation endpoints.
type Audio struct {
	Speech         AudioSpeech
	Transcriptions AudioTranscriptions
	Translations   AudioTranslations
}

// AudioSpeech calls POST /audio/speech.
type AudioSpeech struct{ d *Dispatcher }

// Create synthesizes speech. The result holds the raw audio bytes.
func (n AudioSpeech) Create(ctx context.Context, req *AudioSpeechRequest, opts ...CallOption) (*SpeechResult, error) {
	return doTyped[SpeechResult](ctx, n.d, EndpointAudioSpeech, req, opts...)
}

// AudioTranscriptions calls POST /audio/transcriptions.
type AudioTranscriptions struct{ d *Dispatcher }

// Create transcribes the uploaded audio.
func (n AudioTranscriptions) Create(ctx context.Context, req *AudioTranscriptionRequest, opts ...CallOption) (*AudioTextResponse, error) {
	return doTyped[AudioTextResponse](ctx, n.d, EndpointAudioTranscriptions, req, opts...)
}

// AudioTranslations calls POST /audio/translations.
type AudioTranslations struct{ d *Dispatcher }

// Create translates the uploaded audio into English text.
func (n AudioTranslations) Create(ctx context.Context, req *AudioTranslationRequest, opts ...CallOption) (*AudioTextResponse, error) {
	return doTyped[AudioTextResponse](ctx, n.d, EndpointAudioTranslations, req, opts...)
}

// --- batches, files, models ---

// Batches creates and inspects batch jobs.
type Batches struct{ d *Dispatcher }

// Create submits a batch job.
func (n Batches) Create(ctx context.Context, req *BatchRequest, opts ...CallOption) (*BatchResponse, error) {
	return doTyped[BatchResponse](ctx, n.d, EndpointBatchesCreate, req, opts...)
}

// Retrieve fetches a batch job by id.
func (n Batches) Retrieve(ctx context.Context, batchID string, opts ...CallOption) (*BatchResponse, error) {
	return doTyped[BatchResponse](ctx, n.d, EndpointBatchesRetrieve.Bind(batchID), nil, opts...)
}

// Files manages uploaded files.
type Files struct{ d *Dispatcher }

// Upload sends the file as multipart/form-data. Telemetry records the
// purpose and filename, not the content.
func (n Files) Upload(ctx context.Context, req *FileUploadRequest, opts ...CallOption) (*FileResponse, error) {
	if req == nil || req.Content == nil {
		return nil, fmt.Errorf("%w: file content is required", ErrInvalidRequest)
	}
	return doTyped[FileResponse](ctx, n.d, EndpointFilesUpload, req, opts...)
}

// List returns the uploaded files.
func (n Files) List(ctx context.Context, opts ...CallOption) (*FileListResponse, error) {
	return doTyped[FileListResponse](ctx, n.d, EndpointFilesList, nil, opts...)
}

// Retrieve fetches file metadata by id.
func (n Files) Retrieve(ctx context.Context, fileID string, opts ...CallOption) (*FileResponse, error) {
	return doTyped[FileResponse](ctx, n.d, EndpointFilesRetrieve.Bind(fileID), nil, opts...)
}

// Models lists the models the gateway can route to.
type Models struct{ d *Dispatcher }

// List returns the available models.
func (n Models) List(ctx context.Context, opts ...CallOption) (*ModelListResponse, error) {
	return doTyped[ModelListResponse](ctx, n.d, EndpointModelsList, nil, opts...)
}
