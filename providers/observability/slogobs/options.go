package slogobs

import (
	"io"
	"log/slog"
)

// Option configures New.
type Option func(*options)

type options struct {
	format Format
	level  slog.Level
	output io.Writer
	logger *slog.Logger
}

// WithFormat overrides AISTATS_LOG_FORMAT.
func WithFormat(format Format) Option {
	return func(o *options) { o.format = format }
}

// WithLevel overrides AISTATS_LOG_LEVEL.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithOutput sets the destination writer. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithLogger uses logger as is; format, level and output are ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) *options {
	o := &options{
		format: FormatFromEnv(),
		level:  LevelFromEnv(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
