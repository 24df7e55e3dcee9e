package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ai-stats/ai-stats-go/providers/observability"
)

// observation carries the span and instruments of one call. With no
// observer configured every method is a no-op.
type observation struct {
	ctx      context.Context
	observer observability.Provider
	span     observability.Span
	endpoint string
	model    string
	stream   bool
}

func (d *Dispatcher) observe(ctx context.Context, ep Endpoint, record any, stream bool) *observation {
	o := &observation{ctx: ctx, observer: d.observer, endpoint: ep.Name, stream: stream}
	if d.observer == nil {
		return o
	}
	if payload, ok := record.(Payload); ok {
		o.model, _ = payload["model"].(string)
	}

	ctx, span := d.observer.StartSpan(ctx, observability.SpanRequest,
		observability.String(observability.AttrEndpoint, ep.Name),
		observability.String(observability.AttrHTTPMethod, ep.Method),
		observability.Bool(observability.AttrStream, stream),
	)
	if o.model != "" {
		span.SetAttributes(observability.String(observability.AttrModel, o.model))
	}
	ctx = observability.ContextWithSpan(ctx, span)
	ctx = observability.ContextWithObserver(ctx, d.observer)
	o.ctx, o.span = ctx, span

	d.observer.Debug(ctx, "gateway call started", o.attrs()...)
	return o
}

func (o *observation) attrs(extra ...observability.Attribute) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.String(observability.AttrEndpoint, o.endpoint),
		observability.Bool(observability.AttrStream, o.stream),
	}
	if o.model != "" {
		attrs = append(attrs, observability.String(observability.AttrModel, o.model))
	}
	return append(attrs, extra...)
}

// succeed closes the span of a sync call or an exhausted stream. body is the
// sync response, used for token counts; chunks is -1 for sync calls.
func (o *observation) succeed(elapsed time.Duration, status int, body []byte, chunks int) {
	if o.observer == nil {
		return
	}
	ctx := o.ctx

	extra := []observability.Attribute{
		observability.Int(observability.AttrHTTPStatusCode, status),
		observability.Duration(observability.AttrDuration, elapsed),
	}
	if chunks >= 0 {
		extra = append(extra, observability.Int(observability.AttrChunkCount, chunks))
		o.span.AddEvent(observability.EventStreamCompleted, observability.Int(observability.AttrChunkCount, chunks))
	}
	if usage := usageOf(body); usage != nil {
		extra = append(extra,
			observability.Int64(observability.AttrTokensPrompt, usage.prompt()),
			observability.Int64(observability.AttrTokensCompletion, usage.completion()),
			observability.Int64(observability.AttrTokensTotal, usage.total()),
		)
		o.observer.Counter(observability.MetricTokens).Add(ctx, usage.total(),
			observability.String(observability.AttrEndpoint, o.endpoint),
			observability.String(observability.AttrModel, o.model),
		)
	}

	o.span.SetAttributes(extra...)
	o.span.SetStatus(observability.StatusOK, "")
	o.span.End()

	o.record(elapsed, "success")
	o.observer.Info(ctx, "gateway call completed", o.attrs(extra...)...)
}

func (o *observation) fail(elapsed time.Duration, err error, status *int, chunks int) {
	if o.observer == nil {
		return
	}
	ctx := o.ctx

	extra := []observability.Attribute{
		observability.Error(err),
		observability.Duration(observability.AttrDuration, elapsed),
	}
	if status != nil {
		extra = append(extra, observability.Int(observability.AttrHTTPStatusCode, *status))
	}
	if chunks >= 0 {
		extra = append(extra, observability.Int(observability.AttrChunkCount, chunks))
	}

	o.span.RecordError(err)
	o.span.SetStatus(observability.StatusError, "gateway call failed")
	o.span.End()

	o.record(elapsed, "error")
	o.observer.Error(ctx, "gateway call failed", o.attrs(extra...)...)
}

func (o *observation) abandon(elapsed time.Duration, chunks int) {
	if o.observer == nil {
		return
	}
	o.span.SetAttributes(observability.Int(observability.AttrChunkCount, chunks))
	o.span.SetStatus(observability.StatusOK, "stream abandoned")
	o.span.End()

	o.record(elapsed, "abandoned")
	o.observer.Info(o.ctx, "gateway stream abandoned", o.attrs(
		observability.Int(observability.AttrChunkCount, chunks),
		observability.Duration(observability.AttrDuration, elapsed),
	)...)
}

func (o *observation) record(elapsed time.Duration, status string) {
	o.observer.Histogram(observability.MetricRequestDuration).Record(o.ctx, elapsed.Seconds(),
		observability.String(observability.AttrEndpoint, o.endpoint),
	)
	o.observer.Counter(observability.MetricRequests).Add(o.ctx, 1,
		observability.String(observability.AttrEndpoint, o.endpoint),
		observability.String(observability.AttrStatus, status),
	)
}

// tokenUsage reads either naming of the usage block.
type tokenUsage struct {
	PromptTokens     *int64 `json:"prompt_tokens"`
	CompletionTokens *int64 `json:"completion_tokens"`
	InputTokens      *int64 `json:"input_tokens"`
	OutputTokens     *int64 `json:"output_tokens"`
	TotalTokens      *int64 `json:"total_tokens"`
}

func usageOf(body []byte) *tokenUsage {
	if len(body) == 0 {
		return nil
	}
	var envelope struct {
		Usage *tokenUsage `json:"usage"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return nil
	}
	return envelope.Usage
}

func (u *tokenUsage) prompt() int64 {
	return firstOf(u.PromptTokens, u.InputTokens)
}

func (u *tokenUsage) completion() int64 {
	return firstOf(u.CompletionTokens, u.OutputTokens)
}

func (u *tokenUsage) total() int64 {
	if u.TotalTokens != nil {
		return *u.TotalTokens
	}
	return u.prompt() + u.completion()
}

func firstOf(values ...*int64) int64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
