// Package observability defines the tracing, metrics and logging hooks used
// by the AI Stats client.
//
// [Provider] composes [Tracer], [Metrics] and [Logger]. The client stores the
// active provider and span in the request context ([ContextWithObserver],
// [ContextWithSpan]) so the transport can attach HTTP events to the span
// opened by the dispatcher. Names used across packages live in semconv.go.
package observability
