package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ai-stats/ai-stats-go/core/transport"
	"github.com/ai-stats/ai-stats-go/internal/utils"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs method, path, status and duration.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the query string and body sizes.
	LogLevelStandard

	// LogLevelVerbose adds request and response bodies, truncated to 500
	// characters.
	//
	// WARNING: bodies carry prompts and completions. Do not use in production.
	LogLevelVerbose
)

const truncateLen = 500

// NewLoggingMiddleware logs every call at info and every failure at error.
// The logger must not be nil.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) transport.Middleware {
	return func(next transport.Transport) transport.Transport {
		return transport.Funcs{
			Next: next,
			DoFunc: func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
				logger.InfoContext(ctx, "gateway call", requestAttrs(req, level)...)

				start := time.Now()
				res, err := next.Do(ctx, req)
				elapsed := time.Since(start)
				if err != nil {
					logFailure(ctx, logger, req, elapsed, err)
					return nil, err
				}

				attrs := []any{
					slog.String("method", req.Method),
					slog.String("path", req.Path),
					slog.Int("status", res.StatusCode),
					slog.Duration("duration", elapsed),
				}
				if level >= LogLevelStandard {
					attrs = append(attrs, slog.Int("response_bytes", len(res.Body)))
				}
				if level >= LogLevelVerbose {
					attrs = append(attrs, slog.String("response_body", utils.TruncateString(string(res.Body), truncateLen)))
				}
				logger.InfoContext(ctx, "gateway call completed", attrs...)
				return res, nil
			},
			StreamFunc: func(ctx context.Context, req *transport.Request) (*transport.StreamResponse, error) {
				logger.InfoContext(ctx, "gateway stream", requestAttrs(req, level)...)

				start := time.Now()
				res, err := next.Stream(ctx, req)
				elapsed := time.Since(start)
				if err != nil {
					logFailure(ctx, logger, req, elapsed, err)
					return nil, err
				}

				logger.InfoContext(ctx, "gateway stream opened",
					slog.String("method", req.Method),
					slog.String("path", req.Path),
					slog.Int("status", res.StatusCode),
					slog.Duration("time_to_headers", elapsed),
				)
				return res, nil
			},
		}
	}
}

func requestAttrs(req *transport.Request, level LogLevel) []any {
	attrs := []any{
		slog.String("method", req.Method),
		slog.String("path", req.Path),
	}
	if level >= LogLevelStandard && len(req.Query) > 0 {
		attrs = append(attrs, slog.String("query", req.Query.Encode()))
	}
	if level >= LogLevelVerbose && req.Body != nil {
		if _, multipart := req.Body.(*transport.Multipart); multipart {
			attrs = append(attrs, slog.String("request_body", "<multipart>"))
		} else if encoded, err := json.Marshal(req.Body); err == nil {
			attrs = append(attrs, slog.String("request_body", utils.TruncateString(string(encoded), truncateLen)))
		}
	}
	return attrs
}

func logFailure(ctx context.Context, logger *slog.Logger, req *transport.Request, elapsed time.Duration, err error) {
	attrs := []any{
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Duration("duration", elapsed),
		slog.String("error", err.Error()),
	}
	if status, ok := transport.StatusCode(err); ok {
		attrs = append(attrs, slog.Int("status", status))
	}
	logger.ErrorContext(ctx, "gateway call failed", attrs...)
}
