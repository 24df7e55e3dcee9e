// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans, counters and histograms become debug-level log records; ordinary
// log calls map onto slog levels. Output format and level come from
// AISTATS_LOG_FORMAT and AISTATS_LOG_LEVEL unless overridden with [WithFormat],
// [WithLevel] or [WithLogger].
package slogobs
