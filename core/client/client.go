package client

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
)

// Client is the gateway client. Namespaces only hold the dispatcher, so a
// Client can be copied and shared freely across goroutines.
type Client struct {
	*Dispatcher

	Chat        Chat
	Messages    Messages
	Responses   Responses
	Embeddings  Embeddings
	Moderations Moderations
	Images      Images
	Audio       Audio
	Batches     Batches
	Files       Files
	Models      Models
}

// New builds a client authenticating with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	t := o.transport
	if t == nil {
		topts := []transport.Option{transport.WithTimeout(o.timeout)}
		if o.httpClient != nil {
			topts = append(topts, transport.WithHTTPClient(o.httpClient))
		}
		for key := range o.header {
			topts = append(topts, transport.WithHeader(key, o.header.Get(key)))
		}
		t = transport.NewHTTPTransport(o.baseURL, apiKey, topts...)
	}
	t = transport.Chain(t, o.middlewares...)

	recorder := o.recorder
	if recorder == nil {
		cfg := devtools.DefaultConfig()
		if o.devtools != nil {
			cfg = *o.devtools
		}
		recorder = devtools.New(cfg, devtools.WithLogger(o.logger))
	}

	return newClient(NewDispatcher(t, recorder, o.observer, o.logger)), nil
}

func newClient(d *Dispatcher) *Client {
	return &Client{
		Dispatcher:  d,
		Chat:        Chat{Completions: ChatCompletions{d: d}},
		Messages:    Messages{d: d},
		Responses:   Responses{d: d},
		Embeddings:  Embeddings{d: d},
		Moderations: Moderations{d: d},
		Images:      Images{d: d},
		Audio: Audio{
			Speech:         AudioSpeech{d: d},
			Transcriptions: AudioTranscriptions{d: d},
			Translations:   AudioTranslations{d: d},
		},
		Batches: Batches{d: d},
		Files:   Files{d: d},
		Models:  Models{d: d},
	}
}

// --- generation shortcuts ---

// GenerateText runs a sync chat completion.
func (c *Client) GenerateText(ctx context.Context, req *ChatCompletionsRequest, opts ...CallOption) (*ChatCompletionsResponse, error) {
	return c.Chat.Completions.Create(ctx, req, opts...)
}

// StreamText streams a chat completion.
func (c *Client) StreamText(ctx context.Context, req *ChatCompletionsRequest, opts ...CallOption) (*LineStream, error) {
	return c.Chat.Completions.Stream(ctx, req, opts...)
}

// GenerateMessage runs a sync Messages call.
func (c *Client) GenerateMessage(ctx context.Context, req *MessagesRequest, opts ...CallOption) (*MessagesResponse, error) {
	return c.Messages.Create(ctx, req, opts...)
}

// StreamMessages opens a streamed Messages call.
func (c *Client) StreamMessages(ctx context.Context, req *MessagesRequest, opts ...CallOption) (*LineStream, error) {
	return c.Messages.Stream(ctx, req, opts...)
}

// GenerateResponse runs a sync Responses call.
func (c *Client) GenerateResponse(ctx context.Context, req *ResponsesRequest, opts ...CallOption) (*ResponsesResponse, error) {
	return c.Responses.Create(ctx, req, opts...)
}

// StreamResponse opens a streamed Responses call.
func (c *Client) StreamResponse(ctx context.Context, req *ResponsesRequest, opts ...CallOption) (*LineStream, error) {
	return c.Responses.Stream(ctx, req, opts...)
}

// GenerateEmbedding embeds the request input.
func (c *Client) GenerateEmbedding(ctx context.Context, req *EmbeddingsRequest, opts ...CallOption) (*EmbeddingsResponse, error) {
	return c.Embeddings.Create(ctx, req, opts...)
}

// GenerateModeration classifies the request input.
func (c *Client) GenerateModeration(ctx context.Context, req *ModerationsRequest, opts ...CallOption) (*ModerationsResponse, error) {
	return c.Moderations.Create(ctx, req, opts...)
}

// GenerateImage creates images from a prompt.
func (c *Client) GenerateImage(ctx context.Context, req *ImagesGenerationRequest, opts ...CallOption) (*ImagesResponse, error) {
	return c.Images.Generate(ctx, req, opts...)
}

// EditImage changes an existing image.
func (c *Client) EditImage(ctx context.Context, req *ImagesEditRequest, opts ...CallOption) (*ImagesResponse, error) {
	return c.Images.Edit(ctx, req, opts...)
}

// GenerateSpeech returns the synthesized audio bytes.
func (c *Client) GenerateSpeech(ctx context.Context, req *AudioSpeechRequest, opts ...CallOption) (*SpeechResult, error) {
	return c.Audio.Speech.Create(ctx, req, opts...)
}

// GenerateTranscription transcribes audio.
func (c *Client) GenerateTranscription(ctx context.Context, req *AudioTranscriptionRequest, opts ...CallOption) (*AudioTextResponse, error) {
	return c.Audio.Transcriptions.Create(ctx, req, opts...)
}

// GenerateTranslation translates audio into English text.
func (c *Client) GenerateTranslation(ctx context.Context, req *AudioTranslationRequest, opts ...CallOption) (*AudioTextResponse, error) {
	return c.Audio.Translations.Create(ctx, req, opts...)
}

// CreateBatch submits a batch job.
func (c *Client) CreateBatch(ctx context.Context, req *BatchRequest, opts ...CallOption) (*BatchResponse, error) {
	return c.Batches.Create(ctx, req, opts...)
}

// GetBatch fetches a batch job by id.
func (c *Client) GetBatch(ctx context.Context, batchID string, opts ...CallOption) (*BatchResponse, error) {
	return c.Batches.Retrieve(ctx, batchID, opts...)
}

// UploadFile uploads a file as multipart/form-data.
func (c *Client) UploadFile(ctx context.Context, req *FileUploadRequest, opts ...CallOption) (*FileResponse, error) {
	return c.Files.Upload(ctx, req, opts...)
}

// ListFiles returns the uploaded files.
func (c *Client) ListFiles(ctx context.Context, opts ...CallOption) (*FileListResponse, error) {
	return c.Files.List(ctx, opts...)
}

// GetFile fetches file metadata by id.
func (c *Client) GetFile(ctx context.Context, fileID string, opts ...CallOption) (*FileResponse, error) {
	return c.Files.Retrieve(ctx, fileID, opts...)
}

// ListModels returns the models the gateway can route to.
func (c *Client) ListModels(ctx context.Context, opts ...CallOption) (*ModelListResponse, error) {
	return c.Models.List(ctx, opts...)
}

// --- gateway management ---

// GetHealth reports gateway health.
func (c *Client) GetHealth(ctx context.Context, opts ...CallOption) (*Payload, error) {
	return doTyped[Payload](ctx, c.Dispatcher, EndpointHealth, nil, opts...)
}

// ListProviders returns the upstream providers and their status.
func (c *Client) ListProviders(ctx context.Context, opts ...CallOption) (*Payload, error) {
	return doTyped[Payload](ctx, c.Dispatcher, EndpointProviders, nil, opts...)
}

// GetCredits returns the account credit balance.
func (c *Client) GetCredits(ctx context.Context, opts ...CallOption) (*Payload, error) {
	return doTyped[Payload](ctx, c.Dispatcher, EndpointCredits, nil, opts...)
}

// GetActivity returns recent account activity.
func (c *Client) GetActivity(ctx context.Context, opts ...CallOption) (*Payload, error) {
	return doTyped[Payload](ctx, c.Dispatcher, EndpointActivity, nil, opts...)
}

// GetAnalytics posts an analytics query, e.g. {"access_token": ..., "range": "7d"}.
func (c *Client) GetAnalytics(ctx context.Context, query Payload, opts ...CallOption) (*Payload, error) {
	if query == nil {
		query = Payload{}
	}
	return doTyped[Payload](ctx, c.Dispatcher, EndpointAnalytics, query, opts...)
}

// GetGeneration looks a generation up by id.
func (c *Client) GetGeneration(ctx context.Context, id string, opts ...CallOption) (*Payload, error) {
	opts = append([]CallOption{WithQuery(url.Values{"id": {id}})}, opts...)
	return doTyped[Payload](ctx, c.Dispatcher, EndpointGenerationsRetrieve, nil, opts...)
}

// ListKeys lists provisioning keys.
func (c *Client) ListKeys(ctx context.Context, opts ...CallOption) (*ProvisioningKeyList, error) {
	return doTyped[ProvisioningKeyList](ctx, c.Dispatcher, EndpointKeysList, nil, opts...)
}

// CreateKey creates a provisioning key. The secret is only returned here.
func (c *Client) CreateKey(ctx context.Context, req *ProvisioningKeyRequest, opts ...CallOption) (*ProvisioningKeyResult, error) {
	return doTyped[ProvisioningKeyResult](ctx, c.Dispatcher, EndpointKeysCreate, req, opts...)
}

// GetKey fetches a provisioning key by id.
func (c *Client) GetKey(ctx context.Context, id string, opts ...CallOption) (*ProvisioningKeyResult, error) {
	return doTyped[ProvisioningKeyResult](ctx, c.Dispatcher, EndpointKeysRetrieve.Bind(id), nil, opts...)
}

// UpdateKey changes the name, scopes or status of a provisioning key.
func (c *Client) UpdateKey(ctx context.Context, id string, req *ProvisioningKeyRequest, opts ...CallOption) (*Ack, error) {
	return doTyped[Ack](ctx, c.Dispatcher, EndpointKeysUpdate.Bind(id), req, opts...)
}

// DeleteKey revokes a provisioning key.
func (c *Client) DeleteKey(ctx context.Context, id string, opts ...CallOption) (*Ack, error) {
	return doTyped[Ack](ctx, c.Dispatcher, EndpointKeysDelete.Bind(id), nil, opts...)
}
