// Package middleware provides [transport.Middleware] implementations for the
// gateway client.
//
// [NewLoggingMiddleware] emits slog entries before and after every call.
// Middlewares sit below the client's telemetry capture: they see each
// transport call, and the devtools entry still carries the outcome the
// caller receives.
//
//	c, err := client.New(apiKey,
//		client.WithMiddleware(
//			middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//		),
//	)
package middleware
