// Package transport issues the HTTP requests behind every gateway operation.
//
// [Transport] is the seam between the dispatcher and the network: Do performs
// a request and returns the full body, Stream performs a request and hands
// back the open body for line-by-line reading. [HTTPTransport] is the
// net/http implementation. Failures surface as [*APIError] (the gateway
// answered with a non-2xx status) or [*ConnectionError] (no usable answer).
package transport
