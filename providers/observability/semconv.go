package observability

// Attribute, span, event and metric names shared by the client, the
// transport and the observability providers.

// --- Gateway call attributes ---

const (
	// AttrEndpoint is the logical operation name, e.g. "chat.completions".
	AttrEndpoint = "aistats.endpoint"

	// AttrModel is the model id sent with the request.
	AttrModel = "aistats.model"

	// AttrProvider is the upstream provider reported by the gateway.
	AttrProvider = "aistats.provider"

	// AttrStream is true for streaming calls.
	AttrStream = "aistats.stream"

	// AttrChunkCount is the number of lines yielded by a stream.
	AttrChunkCount = "aistats.stream.chunks"
)

// --- Token usage ---

const (
	AttrTokensPrompt     = "aistats.tokens.prompt"     // #nosec G101 -- token counts, not credentials
	AttrTokensCompletion = "aistats.tokens.completion" // #nosec G101 -- token counts, not credentials
	AttrTokensTotal      = "aistats.tokens.total"      // #nosec G101 -- token counts, not credentials
)

// --- HTTP ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
)

// --- General ---

const (
	AttrError             = "error"
	AttrErrorType         = "error.type"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Spans ---

const (
	// SpanRequest wraps one dispatched gateway call, sync or streaming.
	SpanRequest = "aistats.request"
)

// --- Events ---

const (
	EventHTTPRequestPrepared  = "http.request.prepared"
	EventHTTPRequestError     = "http.request.error"
	EventHTTPResponseReceived = "http.response.received"
	EventHTTPStreamStarted    = "http.stream.started"
	EventStreamCompleted      = "aistats.stream.completed"
)

// --- Metrics ---

const (
	// MetricRequests counts dispatched calls, labelled by endpoint and status.
	MetricRequests = "aistats.client.requests"

	// MetricRequestDuration observes call duration in seconds.
	MetricRequestDuration = "aistats.client.request.duration"

	// MetricTokens counts total tokens reported by successful sync calls.
	MetricTokens = "aistats.client.tokens"
)
